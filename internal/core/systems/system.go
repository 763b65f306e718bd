package systems

import (
	"sort"
	"time"

	"github.com/zeusync/focusar/internal/core/systems/physics"
	"github.com/zeusync/focusar/internal/core/tracking"
)

// Probe is the result of the externally performed ray/hit test for one frame.
type Probe struct {
	// ID identifies the candidate under the reticle.
	ID string
	// Distance is the hit distance. Zero means the hit test did not report one.
	Distance float64
	// Pose of the hit, when the hit test supplies it.
	Pose *physics.Pose
}

// Frame is everything the core consumes for one tick.
type Frame struct {
	// Now is sampled once per tick from the injected clock.
	Now time.Duration
	// Probe is nil when the hit test found no candidate.
	Probe *Probe
	// Camera pose for reticle placement; nil when unknown.
	Camera *physics.Pose
	// Tracking is the marker tracking signal for this tick.
	Tracking tracking.Signal
}

// System is a per-tick processor driven by the engine.
type System interface {
	Name() string
	Priority() Priority
	// Update applies one tick. Systems never block and never fail once built.
	Update(frame Frame)
}

// Priority defines execution order; higher runs first.
type Priority uint16

const (
	PriorityLow    Priority = 500
	PriorityNormal Priority = 600
	PriorityHigh   Priority = 1000
)

// Order sorts systems by descending priority, keeping registration order for ties.
func Order(list []System) []System {
	out := make([]System, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}
