package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"FxSentinel/internal/calculator"
	"FxSentinel/internal/collector"
	"FxSentinel/internal/config"
	"FxSentinel/internal/model"
	"FxSentinel/internal/notifier"
	"FxSentinel/internal/recorder"
	"FxSentinel/internal/stats"
	"FxSentinel/internal/strategy"
	"FxSentinel/internal/throttle"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic market scan and the daily report, and
// handles chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Throttle   *throttle.Tracker
	Stats      *stats.Manager
	Notifier   notifier.Sender
	Recorder   recorder.Recorder
	Pairs      []config.Pair
	Timeframes []config.Timeframe
	Workers    int
	Ctx        context.Context

	active atomic.Bool
	scanMu sync.Mutex // at most one scan tick in flight
}

// NewScheduler creates a new Scheduler with signals active.
func NewScheduler(ctx context.Context, cfg *config.Config, col *collector.Collector, tr *throttle.Tracker, st *stats.Manager, tn notifier.Sender, rec recorder.Recorder) *Scheduler {
	s := &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Throttle:   tr,
		Stats:      st,
		Notifier:   tn,
		Recorder:   rec,
		Pairs:      cfg.Pairs,
		Timeframes: cfg.Timeframes,
		Workers:    cfg.Scan.Workers,
		Ctx:        ctx,
	}
	s.active.Store(true)
	return s
}

// RegisterAll registers the scan tick and the daily report task.
func (s *Scheduler) RegisterAll(scanIntervalSeconds int, dailyCron string) error {
	spec := fmt.Sprintf("@every %ds", scanIntervalSeconds)
	if _, err := s.Cron.AddFunc(spec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyReport); err != nil {
		return fmt.Errorf("register daily report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes one scan immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

type scanJob struct {
	pair config.Pair
	tf   config.Timeframe
}

func (s *Scheduler) scanTask() {
	if !s.active.Load() {
		return
	}
	if !s.scanMu.TryLock() {
		log.Println("[WARN] previous scan still running, skipping tick")
		return
	}
	defer s.scanMu.Unlock()

	jobs := make(chan scanJob)
	var wg sync.WaitGroup
	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				s.evaluate(j.pair, j.tf)
			}
		}()
	}
	for _, p := range s.Pairs {
		for _, tf := range s.Timeframes {
			jobs <- scanJob{pair: p, tf: tf}
		}
	}
	close(jobs)
	wg.Wait()
}

// evaluate runs the cooldown -> fetch -> calculate -> classify pipeline for
// one (pair, timeframe) key. A failure here never affects other keys.
func (s *Scheduler) evaluate(p config.Pair, tf config.Timeframe) {
	key := model.CooldownKey{Pair: p.Name, Timeframe: tf.Label}
	now := time.Now().UTC()

	if !s.Throttle.Allow(key, now, tf.Cooldown()) {
		return
	}

	snap, err := s.Collector.Collect(p.Ticker, tf.Interval)
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) {
			return // short series is a skip, not an error
		}
		log.Printf("[WARN] collect %s %s: %v", p.Name, tf.Label, err)
		return
	}

	direction := strategy.Classify(snap, tf.Mode)
	if direction == model.DirectionNone {
		return
	}

	alert := &model.Alert{
		Pair:      p.Name,
		Timeframe: tf.Label,
		Mode:      tf.Mode,
		Direction: direction,
		Expiry:    tf.Expiry,
		FiredAt:   now,
	}
	log.Printf("[INFO] signal fired: %s %s %s", alert.Pair, alert.Timeframe, alert.Direction)

	// Cooldown is recorded regardless of delivery outcome: at most one
	// attempt per fired signal.
	s.trySend(notifier.FormatSignalAlert(alert))
	s.Throttle.Record(key, now)

	if err := s.Recorder.RecordSignal(&recorder.SignalRecord{Alert: alert, Snapshot: snap}); err != nil {
		log.Printf("[ERROR] record signal: %v", err)
	}
}

func (s *Scheduler) dailyReport() {
	tally := s.Stats.Reset()
	log.Printf("[INFO] daily report: %d wins / %d losses", tally.Win, tally.Loss)
	s.trySend(notifier.FormatDailyReport(tally))

	if err := s.Recorder.RecordDailyReport(&recorder.DailyReportEvent{
		Win: tally.Win, Loss: tally.Loss, Winrate: tally.Winrate(),
	}); err != nil {
		log.Printf("[ERROR] record daily report: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/pause":
		s.active.Store(false)
		return "⏸ Signals paused"
	case "/resume":
		s.active.Store(true)
		return "▶️ Signals resumed"
	case "/win":
		s.Stats.AddWin()
		s.recordOutcome("WIN")
		return "✅ WIN recorded"
	case "/loss":
		s.Stats.AddLoss()
		s.recordOutcome("LOSS")
		return "❌ LOSS recorded"
	case "/summary":
		return notifier.FormatSummary(s.Stats.Snapshot())
	default:
		return "Available commands:\n• /pause\n• /resume\n• /win\n• /loss\n• /summary"
	}
}

func (s *Scheduler) recordOutcome(result string) {
	tally := s.Stats.Snapshot()
	if err := s.Recorder.RecordOutcome(&recorder.OutcomeEvent{
		Result: result, Win: tally.Win, Loss: tally.Loss,
	}); err != nil {
		log.Printf("[ERROR] record outcome: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
