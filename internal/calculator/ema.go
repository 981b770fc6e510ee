package calculator

import "errors"

// CalculateEMA computes the exponential moving average series with smoothing
// factor 2/(period+1), seeded by the first value (no SMA warm-up).
func CalculateEMA(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) == 0 {
		return nil, errors.New("no prices provided")
	}
	alpha := 2.0 / float64(period+1)
	ema := make([]float64, len(prices))
	ema[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		ema[i] = alpha*prices[i] + (1-alpha)*ema[i-1]
	}
	return ema, nil
}

// CalculateLatestEMA returns only the most recent EMA value.
func CalculateLatestEMA(prices []float64, period int) (float64, error) {
	ema, err := CalculateEMA(prices, period)
	if err != nil {
		return 0, err
	}
	return ema[len(ema)-1], nil
}
