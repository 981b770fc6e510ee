package calculator

import "errors"

// MACD periods.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// CalculateMACDHistogram computes the latest MACD(12,26,9) histogram value:
// MACD line = EMA12 - EMA26, signal line = EMA(MACD, 9), histogram = MACD - signal.
func CalculateMACDHistogram(prices []float64) (float64, error) {
	if len(prices) < macdSlowPeriod {
		return 0, errors.New("not enough data for MACD calculation")
	}

	fast, err := CalculateEMA(prices, macdFastPeriod)
	if err != nil {
		return 0, err
	}
	slow, err := CalculateEMA(prices, macdSlowPeriod)
	if err != nil {
		return 0, err
	}

	macd := make([]float64, len(prices))
	for i := range prices {
		macd[i] = fast[i] - slow[i]
	}

	signal, err := CalculateEMA(macd, macdSignalPeriod)
	if err != nil {
		return 0, err
	}

	last := len(prices) - 1
	return macd[last] - signal[last], nil
}
