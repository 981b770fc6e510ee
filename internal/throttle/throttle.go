package throttle

import (
	"sync"
	"time"

	"FxSentinel/internal/model"
)

// Tracker remembers the last-fired time for each (pair, timeframe) key and
// suppresses re-firing within the key's cooldown window. Safe for concurrent
// use by parallel scan workers.
type Tracker struct {
	mu        sync.Mutex
	lastFired map[model.CooldownKey]time.Time
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{lastFired: make(map[model.CooldownKey]time.Time)}
}

// Allow reports whether a signal may fire for key at time now. True when the
// key has never fired, or when at least window has elapsed since it last did.
func (t *Tracker) Allow(key model.CooldownKey, now time.Time, window time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastFired[key]
	if !ok {
		return true
	}
	return now.Sub(last) >= window
}

// Record overwrites the last-fired timestamp for key. Called only after a
// signal is actually emitted; a NONE verdict never records.
func (t *Tracker) Record(key model.CooldownKey, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastFired[key] = now
}
