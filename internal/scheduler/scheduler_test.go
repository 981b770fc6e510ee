package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"FxSentinel/internal/collector"
	"FxSentinel/internal/config"
	"FxSentinel/internal/model"
	"FxSentinel/internal/recorder"
	"FxSentinel/internal/stats"
	"FxSentinel/internal/throttle"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeSender) Send(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	return f.Send(text)
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	signals []*recorder.SignalRecord
}

func (f *fakeRecorder) RecordSignal(rec *recorder.SignalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, rec)
	return nil
}

func (f *fakeRecorder) RecordOutcome(_ *recorder.OutcomeEvent) error         { return nil }
func (f *fakeRecorder) RecordDailyReport(_ *recorder.DailyReportEvent) error { return nil }
func (f *fakeRecorder) Close() error                                        { return nil }

func (f *fakeRecorder) signalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signals)
}

func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time: base.Add(time.Duration(i) * time.Minute),
			Open: c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

// buyCloses yields an uptrend whose latest bar classifies as an AGGRESSIVE
// BUY: fast EMA above slow, RSI 60, positive histogram.
func buyCloses(n int) []float64 {
	closes := []float64{1.0}
	for i := 1; i < n; i++ {
		step := 0.0003
		if i%2 == 0 {
			step = -0.0002
		}
		closes = append(closes, closes[len(closes)-1]+step)
	}
	return closes
}

func flatCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 1.1
	}
	return closes
}

func testConfig(pairs ...config.Pair) *config.Config {
	cfg := &config.Config{}
	cfg.Pairs = pairs
	cfg.Timeframes = []config.Timeframe{
		{Label: "M1", Interval: "1m", Mode: model.ModeAggressive, CooldownSeconds: 60, Expiry: "1-2 MIN"},
	}
	cfg.Scan.Workers = 2
	return cfg
}

func newTestScheduler(cfg *config.Config, fetcher collector.Fetcher) (*Scheduler, *fakeSender, *fakeRecorder) {
	sender := &fakeSender{}
	rec := &fakeRecorder{}
	col := collector.NewCollector(fetcher, 300)
	s := NewScheduler(context.Background(), cfg, col, throttle.NewTracker(), stats.NewManager(), sender, rec)
	return s, sender, rec
}

func TestScan_FiresBuySignal(t *testing.T) {
	mock := &collector.MockFetcher{Bars: barsFromCloses(buyCloses(250))}
	s, sender, rec := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	s.scanTask()

	msgs := sender.sent()
	if len(msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0], "BUY") || !strings.Contains(msgs[0], "EURUSD") {
		t.Errorf("alert missing direction or pair: %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "1-2 MIN") {
		t.Errorf("alert missing expiry label: %q", msgs[0])
	}
	if rec.signalCount() != 1 {
		t.Errorf("recorded %d signals, want 1", rec.signalCount())
	}

	// Same key within the cooldown window: provider must not be consulted again.
	calls := mock.Calls()
	s.scanTask()
	if mock.Calls() != calls {
		t.Errorf("provider called during cooldown: %d -> %d", calls, mock.Calls())
	}
	if len(sender.sent()) != 1 {
		t.Error("duplicate alert emitted during cooldown")
	}
}

func TestScan_CooldownSkipsProvider(t *testing.T) {
	mock := &collector.MockFetcher{Bars: barsFromCloses(buyCloses(250))}
	s, sender, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	key := model.CooldownKey{Pair: "EURUSD", Timeframe: "M1"}
	s.Throttle.Record(key, time.Now().UTC())

	s.scanTask()

	if mock.Calls() != 0 {
		t.Errorf("provider called %d times, want 0 while cooldown is active", mock.Calls())
	}
	if len(sender.sent()) != 0 {
		t.Error("unexpected alert while cooldown is active")
	}
}

func TestScan_PausedSkipsTick(t *testing.T) {
	mock := &collector.MockFetcher{Bars: barsFromCloses(buyCloses(250))}
	s, sender, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	if reply := s.HandleCommand("/pause"); !strings.Contains(reply, "paused") {
		t.Fatalf("unexpected pause reply: %q", reply)
	}
	s.scanTask()
	if mock.Calls() != 0 {
		t.Errorf("provider called %d times while paused, want 0", mock.Calls())
	}

	if reply := s.HandleCommand("/resume"); !strings.Contains(reply, "resumed") {
		t.Fatalf("unexpected resume reply: %q", reply)
	}
	s.scanTask()
	if mock.Calls() == 0 {
		t.Error("provider not called after resume")
	}
	if len(sender.sent()) != 1 {
		t.Errorf("sent %d messages after resume, want 1", len(sender.sent()))
	}
}

func TestScan_ProviderFailureIsolated(t *testing.T) {
	mock := &collector.MockFetcher{Err: errors.New("provider down")}
	cfg := testConfig(
		config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"},
		config.Pair{Name: "GBPUSD", Ticker: "GBPUSD=X"},
	)
	s, sender, rec := newTestScheduler(cfg, mock)

	s.scanTask()

	// Every key is still attempted; the failures stay per-key.
	if mock.Calls() != 2 {
		t.Errorf("provider called %d times, want 2", mock.Calls())
	}
	if len(sender.sent()) != 0 || rec.signalCount() != 0 {
		t.Error("no alerts expected when the provider fails")
	}
}

func TestScan_ShortSeriesIsSilentSkip(t *testing.T) {
	mock := &collector.MockFetcher{Bars: barsFromCloses(buyCloses(120))}
	s, sender, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	s.scanTask()

	if len(sender.sent()) != 0 {
		t.Error("no alert expected for a series below the indicator lookback")
	}
}

func TestScan_NoneVerdictDoesNotThrottle(t *testing.T) {
	// Flat series: RSI falls back to 100, no rule matches.
	mock := &collector.MockFetcher{Bars: barsFromCloses(flatCloses(250))}
	s, sender, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	s.scanTask()
	s.scanTask()

	if mock.Calls() != 2 {
		t.Errorf("provider called %d times, want 2: NONE must leave the key eligible", mock.Calls())
	}
	if len(sender.sent()) != 0 {
		t.Error("no alert expected for NONE verdicts")
	}
}

// blockingFetcher parks every FetchBars call until release is closed, to
// hold a scan tick open mid-fetch.
type blockingFetcher struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	bars    []model.OHLCV
}

func (b *blockingFetcher) Name() string { return "blocking" }

func (b *blockingFetcher) FetchBars(_ string, _ string, _ int) ([]model.OHLCV, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return b.bars, nil
}

func (b *blockingFetcher) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestScan_AtMostOneTickInFlight(t *testing.T) {
	fetcher := &blockingFetcher{
		release: make(chan struct{}),
		bars:    barsFromCloses(buyCloses(250)),
	}
	s, sender, rec := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), fetcher)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.scanTask()
	}()

	// First tick is parked inside the provider call.
	waitFor(t, func() bool { return fetcher.callCount() == 1 })

	// A tick arriving while one is in flight must return without touching
	// the provider.
	s.scanTask()
	if got := fetcher.callCount(); got != 1 {
		t.Errorf("provider called %d times, want 1: overlapping tick must be skipped", got)
	}

	close(fetcher.release)
	<-done

	if len(sender.sent()) != 1 {
		t.Errorf("sent %d alerts, want exactly 1 from the single completed tick", len(sender.sent()))
	}
	if rec.signalCount() != 1 {
		t.Errorf("recorded %d signals, want 1", rec.signalCount())
	}
}

func TestHandleCommand_Tally(t *testing.T) {
	mock := &collector.MockFetcher{}
	s, _, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	s.HandleCommand("/win")
	s.HandleCommand("/win")
	s.HandleCommand("/loss")

	summary := s.HandleCommand("/summary")
	if !strings.Contains(summary, "Wins: 2") || !strings.Contains(summary, "Losses: 1") {
		t.Errorf("unexpected summary: %q", summary)
	}
	if !strings.Contains(summary, "66.67%") {
		t.Errorf("summary winrate missing or wrong: %q", summary)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	mock := &collector.MockFetcher{}
	s, _, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	reply := s.HandleCommand("/bogus")
	if !strings.Contains(reply, "/summary") {
		t.Errorf("expected help text, got %q", reply)
	}
}

func TestDailyReport_ResetsTally(t *testing.T) {
	mock := &collector.MockFetcher{}
	s, sender, _ := newTestScheduler(testConfig(config.Pair{Name: "EURUSD", Ticker: "EURUSD=X"}), mock)

	s.Stats.AddWin()
	s.Stats.AddLoss()

	s.dailyReport()

	msgs := sender.sent()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "DAILY REPORT") {
		t.Fatalf("expected one daily report message, got %v", msgs)
	}
	if !strings.Contains(msgs[0], "Wins: 1") || !strings.Contains(msgs[0], "Losses: 1") {
		t.Errorf("report missing pre-reset tally: %q", msgs[0])
	}
	if tally := s.Stats.Snapshot(); tally.Win != 0 || tally.Loss != 0 {
		t.Errorf("tally after report = %+v, want zeroes", tally)
	}
}
