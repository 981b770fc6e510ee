package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			pair       TEXT,
			timeframe  TEXT,
			mode       TEXT,
			direction  TEXT,
			expiry     TEXT,
			ema_fast   REAL,
			ema_slow   REAL,
			rsi        REAL,
			histogram  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS outcomes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			result    TEXT,
			win       INTEGER,
			loss      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_ts ON outcomes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS daily_reports (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			win       INTEGER,
			loss      INTEGER,
			winrate   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_ts ON daily_reports(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := rec.Alert
	s := rec.Snapshot
	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, pair, timeframe, mode, direction, expiry, ema_fast, ema_slow, rsi, histogram)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		a.FiredAt.Unix(), a.Pair, a.Timeframe, string(a.Mode), string(a.Direction), a.Expiry,
		s.EMAFast, s.EMASlow, s.RSI, s.Histogram,
	)
	return err
}

func (r *SQLiteRecorder) RecordOutcome(evt *OutcomeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO outcomes
		(timestamp, result, win, loss)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Result, evt.Win, evt.Loss,
	)
	return err
}

func (r *SQLiteRecorder) RecordDailyReport(evt *DailyReportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO daily_reports
		(timestamp, win, loss, winrate)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Win, evt.Loss, evt.Winrate,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
