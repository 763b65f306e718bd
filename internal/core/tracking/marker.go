package tracking

import (
	"sync"

	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

// Marker mirrors the state of one externally tracked image target. The
// tracker reports changes through Found, Lost and Move; the core polls
// Tracked and Position once per tick.
type Marker struct {
	name   string
	logger log.Log

	mu       sync.RWMutex
	tracked  bool
	position physics.Vec3
}

// NewMarker creates an untracked marker.
func NewMarker(name string, logger log.Log) *Marker {
	return &Marker{
		name:   name,
		logger: log.OrNop(logger).With(log.String("marker", name)),
	}
}

func (m *Marker) Name() string { return m.name }

// Found marks the marker as tracked at the given position.
func (m *Marker) Found(position physics.Vec3) {
	m.mu.Lock()
	was := m.tracked
	m.tracked = true
	m.position = position
	m.mu.Unlock()
	if !was {
		m.logger.Debug("tracking found")
	}
}

// Lost marks the marker as untracked. The last position is kept.
func (m *Marker) Lost() {
	m.mu.Lock()
	was := m.tracked
	m.tracked = false
	m.mu.Unlock()
	if was {
		m.logger.Debug("tracking lost")
	}
}

// Move updates the position without changing the tracked flag.
func (m *Marker) Move(position physics.Vec3) {
	m.mu.Lock()
	m.position = position
	m.mu.Unlock()
}

func (m *Marker) Tracked() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracked
}

func (m *Marker) Position() physics.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}
