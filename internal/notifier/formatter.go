package notifier

import (
	"fmt"
	"strings"
	"time"

	"FxSentinel/internal/model"
)

func modeLabel(mode model.Mode) string {
	if mode == model.ModeAggressive {
		return "⚡ AGGRESSIVE"
	}
	return "🛡 SAFE"
}

// FormatSignalAlert formats a fired signal into a Telegram message.
func FormatSignalAlert(alert *model.Alert) string {
	var b strings.Builder
	b.WriteString("📊 <b>EXPERT OPTION SIGNAL</b>\n\n")
	b.WriteString(fmt.Sprintf("MODE: %s\n", modeLabel(alert.Mode)))
	b.WriteString(fmt.Sprintf("PAIR: %s\n", alert.Pair))
	b.WriteString(fmt.Sprintf("TIMEFRAME: %s\n", alert.Timeframe))
	b.WriteString(fmt.Sprintf("DIRECTION: %s\n", alert.Direction))
	b.WriteString(fmt.Sprintf("EXPIRY: %s\n\n", alert.Expiry))
	b.WriteString("⚠️ Enter after candle close")
	return b.String()
}

// FormatSummary formats the current tally for the /summary command.
func FormatSummary(tally model.Tally) string {
	var b strings.Builder
	b.WriteString("📊 <b>DAILY SUMMARY</b>\n\n")
	b.WriteString(fmt.Sprintf("Wins: %d\n", tally.Win))
	b.WriteString(fmt.Sprintf("Losses: %d\n", tally.Loss))
	b.WriteString(fmt.Sprintf("Winrate: %.2f%%", tally.Winrate()))
	return b.String()
}

// FormatDailyReport formats the end-of-day report sent before the tally reset.
func FormatDailyReport(tally model.Tally) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>DAILY REPORT</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Wins: %d\n", tally.Win))
	b.WriteString(fmt.Sprintf("Losses: %d\n", tally.Loss))
	b.WriteString(fmt.Sprintf("Winrate: %.2f%%", tally.Winrate()))
	return b.String()
}
