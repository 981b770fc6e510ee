package recorder

import "FxSentinel/internal/model"

// SignalRecord holds all data for one emitted signal.
type SignalRecord struct {
	Alert    *model.Alert
	Snapshot *model.IndicatorSnapshot
}

// OutcomeEvent records a user-reported trade outcome.
type OutcomeEvent struct {
	Result string // "WIN" or "LOSS"
	Win    int    // tally after the event
	Loss   int
}

// DailyReportEvent records the end-of-day tally before reset.
type DailyReportEvent struct {
	Win     int
	Loss    int
	Winrate float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordOutcome(evt *OutcomeEvent) error
	RecordDailyReport(evt *DailyReportEvent) error
	Close() error
}
