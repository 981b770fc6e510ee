package stats

import (
	"sync"

	"FxSentinel/internal/model"
)

// Manager holds the process-wide win/loss tally with concurrency safety.
// Counters start at zero and are reset at each daily report; they are not
// persisted across restarts.
type Manager struct {
	mu    sync.Mutex
	tally model.Tally
}

// NewManager creates a Manager with a zero tally.
func NewManager() *Manager {
	return &Manager{}
}

// AddWin increments the win counter.
func (m *Manager) AddWin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tally.Win++
}

// AddLoss increments the loss counter.
func (m *Manager) AddLoss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tally.Loss++
}

// Snapshot returns a copy of the current tally.
func (m *Manager) Snapshot() model.Tally {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tally
}

// Reset zeroes both counters and returns the tally as it was before the
// reset, so the caller can report and clear atomically.
func (m *Manager) Reset() model.Tally {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := m.tally
	m.tally = model.Tally{}
	return before
}
