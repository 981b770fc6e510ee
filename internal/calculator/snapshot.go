package calculator

import (
	"errors"
	"fmt"

	"FxSentinel/internal/model"
)

// Indicator periods consumed by the classifier.
const (
	FastEMAPeriod = 50
	SlowEMAPeriod = 200
	RSIPeriod     = 14
)

// MinBars is the lookback required by the slowest indicator.
const MinBars = SlowEMAPeriod

// ErrInsufficientData signals that the series is too short for a valid
// snapshot. Callers skip the key for this tick rather than surface it.
var ErrInsufficientData = errors.New("insufficient data for indicator snapshot")

// Snapshot computes all indicators for the latest bar of the given closes.
func Snapshot(closes []float64) (*model.IndicatorSnapshot, error) {
	if len(closes) < MinBars {
		return nil, ErrInsufficientData
	}

	emaFast, err := CalculateLatestEMA(closes, FastEMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("ema(%d): %w", FastEMAPeriod, err)
	}
	emaSlow, err := CalculateLatestEMA(closes, SlowEMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("ema(%d): %w", SlowEMAPeriod, err)
	}
	rsi, err := CalculateRSI(closes, RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi(%d): %w", RSIPeriod, err)
	}
	hist, err := CalculateMACDHistogram(closes)
	if err != nil {
		return nil, fmt.Errorf("macd histogram: %w", err)
	}

	return &model.IndicatorSnapshot{
		EMAFast:   emaFast,
		EMASlow:   emaSlow,
		RSI:       rsi,
		Histogram: hist,
	}, nil
}
