// Package activation runs timed show/hide windows for scene objects, such as
// a label that appears ten seconds into the experience.
package activation

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems"
)

const Name = "activation"

// EventChanged is published when a window switches its object on or off.
const EventChanged = "activation.changed"

var ErrInvalidWindow = errors.New("activation: invalid window")

// Window activates Object once at At and deactivates it once Duration later.
// A zero Duration leaves the object active.
type Window struct {
	Object   string        `yaml:"object" json:"object"`
	At       time.Duration `yaml:"at" json:"at"`
	Duration time.Duration `yaml:"duration" json:"duration"`
}

func (w Window) Validate() error {
	switch {
	case w.Object == "":
		return fmt.Errorf("%w: object is required", ErrInvalidWindow)
	case w.At < 0 || w.Duration < 0:
		return fmt.Errorf("%w: %q has negative timing", ErrInvalidWindow, w.Object)
	}
	return nil
}

// Change is the payload of EventChanged.
type Change struct {
	Object string
	Active bool
}

type windowState struct {
	Window
	activated bool
	active    bool
}

var _ systems.System = (*Scheduler)(nil)

// Scheduler drives a set of windows from the frame clock.
type Scheduler struct {
	windows []*windowState
	sink    presentation.Sink
	bus     bus.EventBus
	logger  log.Log
}

func NewScheduler(windows []Window, sink presentation.Sink, eb bus.EventBus, logger log.Log) (*Scheduler, error) {
	s := &Scheduler{
		sink:   sink,
		bus:    eb,
		logger: log.OrNop(logger).With(log.String("component", Name)),
	}
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		s.windows = append(s.windows, &windowState{Window: w})
	}
	return s, nil
}

func (s *Scheduler) Name() string               { return Name }
func (s *Scheduler) Priority() systems.Priority { return systems.PriorityLow }

func (s *Scheduler) Update(frame systems.Frame) {
	now := frame.Now
	for _, w := range s.windows {
		end := w.At + w.Duration
		switch {
		case !w.activated && now >= w.At && (w.Duration == 0 || now < end):
			w.activated = true
			w.active = true
			s.set(now, w.Object, true)
		case w.active && w.Duration > 0 && now >= end:
			w.active = false
			s.set(now, w.Object, false)
		}
	}
}

// Active reports whether the object of the named window is currently on.
func (s *Scheduler) Active(object string) bool {
	for _, w := range s.windows {
		if w.Object == object && w.active {
			return true
		}
	}
	return false
}

func (s *Scheduler) set(now time.Duration, object string, active bool) {
	if s.sink != nil {
		s.sink.SetActive(object, active)
	}
	s.logger.Debug("window changed", log.String("object", object), log.Bool("active", active), log.Duration("at", now))
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(EventChanged, Name, now, Change{Object: object, Active: active})); err != nil {
		s.logger.Warn("event handler failed", log.String("event", EventChanged), log.Error(err))
	}
}
