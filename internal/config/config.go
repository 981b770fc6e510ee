package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"FxSentinel/internal/model"

	"gopkg.in/yaml.v3"
)

// Pair maps an instrument name to its provider-specific ticker.
type Pair struct {
	Name   string `yaml:"name"`
	Ticker string `yaml:"ticker"`
}

// Timeframe describes one scanned timeframe and its mode/cooldown mapping.
type Timeframe struct {
	Label           string     `yaml:"label"`    // e.g. "M1"
	Interval        string     `yaml:"interval"` // provider interval, e.g. "1m"
	Mode            model.Mode `yaml:"mode"`
	CooldownSeconds int        `yaml:"cooldown_seconds"`
	Expiry          string     `yaml:"expiry"` // suggested validity label
}

// Cooldown returns the throttle window for this timeframe.
func (t Timeframe) Cooldown() time.Duration {
	return time.Duration(t.CooldownSeconds) * time.Second
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Pairs      []Pair      `yaml:"pairs"`
	Timeframes []Timeframe `yaml:"timeframes"`
	Scan       struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		LookbackBars    int `yaml:"lookback_bars"`
		Workers         int `yaml:"workers"`
	} `yaml:"scan"`
	Report struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"report"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TOKEN"); v != "" && cfg.Telegram.BotToken == "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CHAT_ID"); v != "" && cfg.Telegram.ChatID == "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Scan.IntervalSeconds = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Pairs) == 0 {
		c.Pairs = []Pair{
			{Name: "EURUSD", Ticker: "EURUSD=X"},
			{Name: "GBPUSD", Ticker: "GBPUSD=X"},
			{Name: "USDJPY", Ticker: "JPY=X"},
			{Name: "AUDUSD", Ticker: "AUDUSD=X"},
			{Name: "USDCHF", Ticker: "CHF=X"},
			{Name: "USDCAD", Ticker: "CAD=X"},
		}
	}
	if len(c.Timeframes) == 0 {
		c.Timeframes = []Timeframe{
			{Label: "M1", Interval: "1m", Mode: model.ModeAggressive, CooldownSeconds: 60, Expiry: "1-2 MIN"},
			{Label: "M5", Interval: "5m", Mode: model.ModeSafe, CooldownSeconds: 300, Expiry: "5 MIN"},
		}
	}
	if c.Scan.IntervalSeconds == 0 {
		c.Scan.IntervalSeconds = 60
	}
	if c.Scan.LookbackBars == 0 {
		c.Scan.LookbackBars = 300
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Report.DailyCron == "" {
		c.Report.DailyCron = "0 59 23 * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/fx_sentinel.db"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	for i, p := range c.Pairs {
		if p.Name == "" || p.Ticker == "" {
			return fmt.Errorf("pairs[%d]: name and ticker are required", i)
		}
	}
	for i, tf := range c.Timeframes {
		if tf.Label == "" || tf.Interval == "" {
			return fmt.Errorf("timeframes[%d]: label and interval are required", i)
		}
		if tf.Mode != model.ModeAggressive && tf.Mode != model.ModeSafe {
			return fmt.Errorf("timeframes[%d]: mode must be AGGRESSIVE or SAFE", i)
		}
		if tf.CooldownSeconds <= 0 {
			return fmt.Errorf("timeframes[%d]: cooldown_seconds must be positive", i)
		}
	}
	return nil
}
