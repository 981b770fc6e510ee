package strategy

import "FxSentinel/internal/model"

// Rule describes one row of the threshold table. Trend is the required sign
// of EMAFast-EMASlow (+1 bullish, -1 bearish) and HistSign the required sign
// of the MACD histogram. RSI bounds are inclusive.
type Rule struct {
	Mode      model.Mode
	Direction model.Direction
	Trend     int
	RSIMin    float64
	RSIMax    float64
	HistSign  int
}

// Rules is the ordered threshold table. First matching row wins.
var Rules = []Rule{
	{Mode: model.ModeAggressive, Direction: model.DirectionBuy, Trend: 1, RSIMin: 45, RSIMax: 65, HistSign: 1},
	{Mode: model.ModeAggressive, Direction: model.DirectionSell, Trend: -1, RSIMin: 35, RSIMax: 55, HistSign: -1},
	{Mode: model.ModeSafe, Direction: model.DirectionBuy, Trend: 1, RSIMin: 48, RSIMax: 60, HistSign: 1},
	{Mode: model.ModeSafe, Direction: model.DirectionSell, Trend: -1, RSIMin: 40, RSIMax: 52, HistSign: -1},
}

// Classify applies the threshold table to an indicator snapshot.
// Pure function: identical inputs always yield the same verdict.
func Classify(snap *model.IndicatorSnapshot, mode model.Mode) model.Direction {
	trend := 0
	if snap.EMAFast > snap.EMASlow {
		trend = 1
	} else if snap.EMAFast < snap.EMASlow {
		trend = -1
	}

	histSign := 0
	if snap.Histogram > 0 {
		histSign = 1
	} else if snap.Histogram < 0 {
		histSign = -1
	}

	for _, r := range Rules {
		if r.Mode != mode {
			continue
		}
		if trend != r.Trend || histSign != r.HistSign {
			continue
		}
		if snap.RSI < r.RSIMin || snap.RSI > r.RSIMax {
			continue
		}
		return r.Direction
	}
	return model.DirectionNone
}
