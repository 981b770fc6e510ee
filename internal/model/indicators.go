package model

// IndicatorSnapshot holds the latest-bar values of all computed indicators.
type IndicatorSnapshot struct {
	EMAFast   float64 // EMA(50)
	EMASlow   float64 // EMA(200)
	RSI       float64 // RSI(14)
	Histogram float64 // MACD(12,26,9) histogram
}
