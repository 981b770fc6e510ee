package collector

import (
	"fmt"

	"FxSentinel/internal/calculator"
	"FxSentinel/internal/model"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Lookback int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookback int) *Collector {
	return &Collector{Fetcher: fetcher, Lookback: lookback}
}

// Collect fetches bars for one (ticker, interval) and computes the indicator
// snapshot for the latest bar. Returns calculator.ErrInsufficientData when
// the provider yields fewer bars than the slowest indicator needs.
func (c *Collector) Collect(ticker, interval string) (*model.IndicatorSnapshot, error) {
	bars, err := c.Fetcher.FetchBars(ticker, interval, c.Lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	series := model.PriceSeries{Bars: bars}
	snap, err := calculator.Snapshot(series.Closes())
	if err != nil {
		return nil, err
	}
	return snap, nil
}
