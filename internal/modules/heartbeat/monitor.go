package heartbeat

import (
	"sync"
	"time"
)

// Monitor tracks keepalive arrivals on the control channel.
type Monitor struct {
	mu       sync.Mutex
	lastSeen time.Time
	now      func() time.Time
}

// NewMonitor creates a Monitor. now may be nil to use time.Now; tests inject
// a fixed clock.
func NewMonitor(now func() time.Time) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{now: now}
}

// Observe records a keepalive arrival and returns the gap since the previous
// one. The first observation returns zero.
func (m *Monitor) Observe() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.now()
	var gap time.Duration
	if !m.lastSeen.IsZero() {
		gap = t.Sub(m.lastSeen)
	}
	m.lastSeen = t
	return gap
}

// LastSeen returns the time of the most recent keepalive, or false if none
// has arrived yet.
func (m *Monitor) LastSeen() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastSeen.IsZero() {
		return time.Time{}, false
	}
	return m.lastSeen, true
}
