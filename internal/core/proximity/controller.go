// Package proximity converts the distance between two tracked markers into a
// bounded, accumulating scale deformation of a virtual object.
//
// The controller adds the curve multiplier to the scale every tracked tick
// while the scale is above baseline/capFactor. With the default negative
// multipliers and negative capFactor this shrinks the object toward a
// negative bound; the signed comparison is kept literally as configured.
package proximity

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

const Name = "proximity"

// EventScaled is published whenever a tick changes the scale.
const EventScaled = "proximity.scaled"

const (
	offsetPerScale = 0.5
	offsetBias     = 0.25
)

var ErrInvalidCapFactor = errors.New("proximity: cap factor must be finite and non-zero")

var _ systems.System = (*Controller)(nil)

// Target is the virtual object attached to the content marker, as it was at
// engine start.
type Target struct {
	Object string
	Scale  physics.Vec3
	Offset physics.Vec3
}

type Config struct {
	Curve     ResponseCurve
	CapFactor float64
}

func DefaultConfig() Config {
	return Config{Curve: DefaultCurve(), CapFactor: -2.0}
}

type Deps struct {
	Sink   presentation.Sink
	Bus    bus.EventBus
	Logger log.Log
}

// Step describes one tracked tick.
type Step struct {
	Distance   float64
	Multiplier float64
	Delta      physics.Vec3
	Scale      physics.Vec3
	Offset     physics.Vec3
}

// Controller is driven from a single goroutine, one Tick per frame.
type Controller struct {
	cfg    Config
	deps   Deps
	logger log.Log

	// nil target means the controller runs as a no-op
	target   *Target
	baseline physics.Vec3
	current  physics.Vec3
	cap      physics.Vec3
	offset   physics.Vec3
}

// New captures the target's baseline scale. A nil target yields a controller
// that ignores every tick.
func New(cfg Config, target *Target, deps Deps) (*Controller, error) {
	if cfg.CapFactor == 0 || math.IsNaN(cfg.CapFactor) || math.IsInf(cfg.CapFactor, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapFactor, cfg.CapFactor)
	}
	if len(cfg.Curve.bands) == 0 {
		return nil, fmt.Errorf("%w: no bands", ErrInvalidCurve)
	}
	c := &Controller{
		cfg:    cfg,
		deps:   deps,
		logger: log.OrNop(deps.Logger).With(log.String("component", Name)),
	}
	if target != nil {
		t := *target
		c.target = &t
		c.baseline = t.Scale
		c.current = t.Scale
		c.cap = t.Scale.Div(cfg.CapFactor)
		c.offset = t.Offset
	}
	return c, nil
}

func (c *Controller) Name() string               { return Name }
func (c *Controller) Priority() systems.Priority { return systems.PriorityNormal }

func (c *Controller) Update(frame systems.Frame) {
	d, ok := frame.Tracking.Range()
	c.Tick(frame.Now, d, ok)
}

// Enabled reports whether a target is attached.
func (c *Controller) Enabled() bool { return c.target != nil }

// Tick applies one frame. Nothing happens unless both markers are tracked.
// Order: curve lookup, per-axis cap check, accumulate, reposition.
func (c *Controller) Tick(now time.Duration, distance float64, tracked bool) (Step, bool) {
	if c.target == nil || !tracked || math.IsNaN(distance) {
		return Step{}, false
	}

	mult := c.cfg.Curve.Lookup(distance)
	c.logger.Debug("marker distance", log.Float64("distance", distance), log.Float64("multiplier", mult))

	var delta physics.Vec3
	for axis := 0; axis < 3; axis++ {
		if c.current.Axis(axis) > c.cap.Axis(axis) {
			delta = delta.WithAxis(axis, mult)
		}
	}

	step := Step{Distance: distance, Multiplier: mult, Delta: delta}
	if delta != (physics.Vec3{}) {
		c.current = c.current.Add(delta)
		if c.deps.Sink != nil {
			c.deps.Sink.AccumulateScale(c.target.Object, delta)
		}
		c.publish(now, step)
	}

	step.Scale = c.current
	step.Offset = c.Reposition()
	return step, true
}

// Reposition recomputes the object's offset from the current scale so it
// floats just above the content marker, and sends it to the sink. The
// result depends only on the current scale.
func (c *Controller) Reposition() physics.Vec3 {
	if c.target == nil {
		return physics.Vec3{}
	}
	c.offset.Y = c.current.Y*offsetPerScale + offsetBias
	if c.deps.Sink != nil {
		c.deps.Sink.SetOffset(c.target.Object, c.offset)
	}
	return c.offset
}

func (c *Controller) Baseline() physics.Vec3 { return c.baseline }
func (c *Controller) Scale() physics.Vec3    { return c.current }
func (c *Controller) Cap() physics.Vec3      { return c.cap }
func (c *Controller) Offset() physics.Vec3   { return c.offset }

// Frozen reports whether every axis has reached the cap.
func (c *Controller) Frozen() bool {
	for axis := 0; axis < 3; axis++ {
		if c.current.Axis(axis) > c.cap.Axis(axis) {
			return false
		}
	}
	return true
}

func (c *Controller) publish(now time.Duration, step Step) {
	if c.deps.Bus == nil {
		return
	}
	if err := c.deps.Bus.Publish(bus.NewEvent(EventScaled, Name, now, step)); err != nil {
		c.logger.Warn("event handler failed", log.String("event", EventScaled), log.Error(err))
	}
}
