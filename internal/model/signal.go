package model

import "time"

// Mode selects which threshold band applies for a timeframe.
type Mode string

const (
	ModeAggressive Mode = "AGGRESSIVE"
	ModeSafe       Mode = "SAFE"
)

// Direction is the verdict of a single evaluation.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionNone Direction = "NONE"
)

// CooldownKey identifies one scanned series for throttling purposes.
type CooldownKey struct {
	Pair      string
	Timeframe string
}

// Alert is the payload handed to the notification sink when a signal fires.
type Alert struct {
	Pair      string
	Timeframe string
	Mode      Mode
	Direction Direction
	Expiry    string // suggested validity window label, e.g. "1-2 MIN"
	FiredAt   time.Time
}

// Tally holds the process-wide win/loss counters.
type Tally struct {
	Win  int
	Loss int
}

// Winrate returns win/(win+loss)*100, or 0 when no outcomes are recorded.
func (t Tally) Winrate() float64 {
	total := t.Win + t.Loss
	if total == 0 {
		return 0
	}
	return float64(t.Win) / float64(total) * 100
}
