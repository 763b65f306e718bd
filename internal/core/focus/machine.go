// Package focus turns a per-tick focus probe into one-shot activations:
// hold the reticle on a candidate long enough and its description is shown
// and its audio played, once, subject to a cooldown and a display window.
package focus

import (
	"time"

	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems"
)

const Name = "focus"

// Event types published by the machine.
const (
	EventAcquired  = "focus.acquired"
	EventActivated = "focus.activated"
	EventReset     = "focus.reset"
)

var _ systems.System = (*Machine)(nil)

// Deps are the machine's collaborators. Any of them may be nil; the
// corresponding capability then does nothing.
type Deps struct {
	Sink      presentation.Sink
	Slot      *audio.Slot
	Describer presentation.Describer
	Clips     audio.Library
	Bus       bus.EventBus
	Logger    log.Log
}

// Machine is the dwell trigger state machine. It is driven from a single
// goroutine, one Tick per frame.
type Machine struct {
	cfg    Config
	deps   Deps
	logger log.Log
	state  State

	activations uint64
}

// New builds a machine in the no-focus configuration. The last trigger time
// starts one cooldown in the past so the first tick is not gated.
func New(cfg Config, deps Deps) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Slot == nil {
		deps.Slot = audio.NewSlot(nil, nil)
	}
	if deps.Describer == nil {
		deps.Describer = presentation.Catalog(nil)
	}
	if deps.Clips == nil {
		deps.Clips = audio.Clips(nil)
	}
	return &Machine{
		cfg:    cfg,
		deps:   deps,
		logger: log.OrNop(deps.Logger).With(log.String("component", Name)),
		state:  State{LastTrigger: -cfg.Cooldown},
	}, nil
}

func (m *Machine) Name() string               { return Name }
func (m *Machine) Priority() systems.Priority { return systems.PriorityHigh }

// Update adapts Tick to the engine's frame loop.
func (m *Machine) Update(frame systems.Frame) {
	m.Tick(frame.Now, frame.Probe)
}

// Start puts the presentation in its initial hidden state.
func (m *Machine) Start() {
	if m.deps.Sink != nil {
		m.deps.Sink.Hide()
	}
}

// Tick applies one frame. Order within a tick: cooldown gate, display
// timeout, focus change, activation. During cooldown nothing else is
// evaluated, so neither focus changes nor display timeouts are observed
// until it has passed.
func (m *Machine) Tick(now time.Duration, probe *systems.Probe) Result {
	var res Result

	if now-m.state.LastTrigger < m.cfg.Cooldown {
		res.Gated = true
		return res
	}

	if m.state.Displaying && now-m.state.DisplayStart >= m.cfg.DisplayDuration {
		m.reset(now, ResetTimeout)
		res.Reset = ResetTimeout
	}

	id, present := m.candidate(probe)
	if !present {
		if m.state.Displaying {
			m.reset(now, ResetLost)
			res.Reset = ResetLost
		}
		return res
	}

	if !m.state.HasTarget || id != m.state.TargetID {
		if m.state.Displaying {
			m.reset(now, ResetRetarget)
			res.Reset = ResetRetarget
		}
		m.acquire(now, id)
		res.Acquired = id
	}

	if !m.state.Triggered && now-m.state.FocusStart >= m.cfg.FocusThreshold {
		m.activate(now)
		res.Activated = id
	}

	return res
}

// State returns a copy of the current bookkeeping.
func (m *Machine) State() State { return m.state }

func (m *Machine) Phase() Phase {
	switch {
	case !m.state.HasTarget:
		return PhaseIdle
	case m.state.Triggered:
		return PhaseTriggered
	default:
		return PhaseFocusing
	}
}

// InCooldown reports whether a tick at now would be gated.
func (m *Machine) InCooldown(now time.Duration) bool {
	return now-m.state.LastTrigger < m.cfg.Cooldown
}

func (m *Machine) Displaying() bool { return m.state.Displaying }

// Activations returns how many activations fired since construction.
func (m *Machine) Activations() uint64 { return m.activations }

func (m *Machine) candidate(probe *systems.Probe) (string, bool) {
	if probe == nil || probe.ID == "" {
		return "", false
	}
	if m.cfg.MaxDistance > 0 && probe.Distance > m.cfg.MaxDistance {
		return "", false
	}
	return probe.ID, true
}

func (m *Machine) acquire(now time.Duration, id string) {
	m.deps.Slot.Stop()
	m.state.TargetID = id
	m.state.HasTarget = true
	m.state.FocusStart = now
	m.state.Triggered = false

	m.logger.Debug("focus acquired", log.String("target", id), log.Duration("at", now))
	m.publish(EventAcquired, now, id)
}

func (m *Machine) activate(now time.Duration) {
	id := m.state.TargetID
	act := Activation{ID: id, Text: m.deps.Describer.Describe(id), At: now}

	if h, ok := m.deps.Clips.Lookup(id); ok {
		m.deps.Slot.Play(h)
		act.Audio = string(h)
	}
	if m.deps.Sink != nil {
		m.deps.Sink.Show(id, act.Text)
	}

	m.state.Triggered = true
	m.state.Displaying = true
	m.state.DisplayStart = now
	m.state.LastTrigger = now
	m.activations++

	m.logger.Info("focus activated",
		log.String("target", id),
		log.Duration("dwell", now-m.state.FocusStart),
		log.String("audio", act.Audio),
	)
	m.publish(EventActivated, now, act)
}

func (m *Machine) reset(now time.Duration, reason ResetReason) {
	target := m.state.TargetID
	m.state.TargetID = ""
	m.state.HasTarget = false
	m.state.Triggered = false
	m.state.Displaying = false

	m.deps.Slot.Stop()
	if m.deps.Sink != nil {
		m.deps.Sink.Hide()
	}

	m.logger.Info("focus reset", log.String("target", target), log.String("reason", reason.String()))
	m.publish(EventReset, now, reason)
}

func (m *Machine) publish(eventType string, now time.Duration, data any) {
	if m.deps.Bus == nil {
		return
	}
	if err := m.deps.Bus.Publish(bus.NewEvent(eventType, Name, now, data)); err != nil {
		m.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
