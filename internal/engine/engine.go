// Package engine assembles the interaction systems and drives them one frame
// at a time.
package engine

import (
	"fmt"

	"github.com/zeusync/focusar/internal/config"
	"github.com/zeusync/focusar/internal/core/activation"
	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/focus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/proximity"
	"github.com/zeusync/focusar/internal/core/systems"
)

type Options struct {
	Config config.Config
	// Sink receives every presentation command. Nil degrades every system
	// that draws.
	Sink presentation.Sink
	// Audio overrides the sink's audio output.
	Audio  audio.Player
	Bus    bus.EventBus
	Logger log.Log
}

// Engine owns the shared audio slot and the ordered system list. Tick and
// Start must be called from one goroutine.
type Engine struct {
	cfg    config.Config
	logger log.Log
	bus    bus.EventBus

	slot      *audio.Slot
	focus     *focus.Machine
	reticle   *focus.Reticle
	proximity *proximity.Controller
	windows   *activation.Scheduler

	systems []systems.System
	errs    []*ConfigurationError

	started bool
	frames  uint64
}

func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.OrNop(opts.Logger).With(log.String("component", "engine"))
	eb := opts.Bus
	if eb == nil {
		eb = bus.New()
	}
	eb.AddObserver(&deliveryObserver{logger: logger})

	e := &Engine{cfg: cfg, logger: logger, bus: eb}

	player := opts.Audio
	if player == nil && opts.Sink != nil {
		player = opts.Sink
	}
	if player == nil {
		e.missing("audio", "audio output")
	}
	e.slot = audio.NewSlot(player, opts.Logger)

	if opts.Sink == nil {
		e.missing(focus.Name, "presentation sink")
	}
	var err error
	e.focus, err = focus.New(cfg.FocusConfig(), focus.Deps{
		Sink:      opts.Sink,
		Slot:      e.slot,
		Describer: cfg.Catalog(),
		Clips:     cfg.Clips(),
		Bus:       eb,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("focus: %w", err)
	}

	e.reticle = &focus.Reticle{
		Object:   cfg.Focus.ReticleObject,
		Distance: cfg.Focus.ReticleDistance,
		Sink:     opts.Sink,
	}

	pc, err := cfg.ProximityConfig()
	if err != nil {
		return nil, fmt.Errorf("proximity: %w", err)
	}
	target := cfg.Target()
	switch {
	case target == nil:
		e.missing(proximity.Name, "target transform")
	case opts.Sink == nil:
		e.missing(proximity.Name, "presentation sink")
		target = nil
	}
	e.proximity, err = proximity.New(pc, target, proximity.Deps{Sink: opts.Sink, Bus: eb, Logger: opts.Logger})
	if err != nil {
		return nil, fmt.Errorf("proximity: %w", err)
	}

	e.windows, err = activation.NewScheduler(cfg.Activations, opts.Sink, eb, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("activation: %w", err)
	}

	e.systems = systems.Order([]systems.System{e.reticle, e.focus, e.proximity, e.windows})
	return e, nil
}

func (e *Engine) missing(component, what string) {
	ce := &ConfigurationError{Component: component, Missing: what}
	e.errs = append(e.errs, ce)
	e.logger.Error("configuration error", log.String("target", component), log.Error(ce))
}

// Start emits the initial presentation state. Only the first call has effect.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.focus.Start()
	e.reticle.Start()
	e.proximity.Reposition()

	names := make([]string, 0, len(e.systems))
	for _, s := range e.systems {
		names = append(names, s.Name())
	}
	e.logger.Info("engine started",
		log.Strings("systems", names),
		log.Int("config_errors", len(e.errs)),
		log.String("fingerprint", e.cfg.Fingerprint()),
	)
}

// Tick runs every system once, highest priority first. It starts the engine
// if Start was not called.
func (e *Engine) Tick(frame systems.Frame) {
	if !e.started {
		e.Start()
	}
	e.frames++
	for _, s := range e.systems {
		s.Update(frame)
	}
}

// ConfigErrors lists the collaborators found missing at construction.
func (e *Engine) ConfigErrors() []*ConfigurationError {
	out := make([]*ConfigurationError, len(e.errs))
	copy(out, e.errs)
	return out
}

func (e *Engine) Systems() []systems.System          { return e.systems }
func (e *Engine) Focus() *focus.Machine              { return e.focus }
func (e *Engine) Proximity() *proximity.Controller   { return e.proximity }
func (e *Engine) Activations() *activation.Scheduler { return e.windows }
func (e *Engine) Slot() *audio.Slot                  { return e.slot }
func (e *Engine) Bus() bus.EventBus                  { return e.bus }
func (e *Engine) Config() config.Config              { return e.cfg }
func (e *Engine) Frames() uint64                     { return e.frames }

// deliveryObserver turns on bus metrics and traces deliveries at debug level.
type deliveryObserver struct {
	logger log.Log
}

func (o *deliveryObserver) OnPublish(string, bus.Event) {}

func (o *deliveryObserver) OnDelivered(eventType string, handlers int, err error) {
	o.logger.Debug("event delivered",
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Error(err),
	)
}
