// Package clock supplies the tick time every subsystem compares its stored
// timestamps against. Time is expressed as elapsed time since the clock
// started, so a zero Duration is the first frame.
package clock

import (
	"sync"
	"time"
)

// Clock is sampled once per tick and passed explicitly into each update.
type Clock interface {
	Now() time.Duration
}

// Monotonic reads the process monotonic clock relative to its creation.
type Monotonic struct {
	start time.Time
}

// NewMonotonic creates a clock whose zero is the moment of the call.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (m *Monotonic) Now() time.Duration {
	return time.Since(m.start)
}

// Manual is a controllable clock for replay and tests.
type Manual struct {
	mu  sync.RWMutex
	now time.Duration
}

// NewManual creates a manual clock at the given time.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t. Moving backwards is ignored; tick time never decreases.
func (m *Manual) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
}

// Advance moves the clock forward by d and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now += d
	}
	return m.now
}
