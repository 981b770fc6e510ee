package collector

import "FxSentinel/internal/model"

// Fetcher defines the interface for fetching intraday price bars.
type Fetcher interface {
	// FetchBars returns up to lookback bars for the given provider ticker and
	// interval string (e.g. "1m", "5m"), ascending by time.
	FetchBars(ticker, interval string, lookback int) ([]model.OHLCV, error)
	Name() string
}
