package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/zeusync/focusar/internal/core/clock"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/systems"
	"github.com/zeusync/focusar/internal/core/tracking"
)

// Ticker consumes one frame per call.
type Ticker interface {
	Tick(frame systems.Frame)
}

type Options struct {
	// Interval between frames. Required.
	Interval time.Duration
	// Realtime paces frames on the wall clock instead of running flat out.
	Realtime bool
	// MarkerA and MarkerB name the markers whose distance feeds tracking.
	MarkerA string
	MarkerB string
	Logger  log.Log
}

// Stats summarizes a run.
type Stats struct {
	Frames      int
	Keyframes   int
	End         time.Duration
	Interrupted bool
}

// Player steps a trace through a Ticker on a manual clock. Frame times are
// exact multiples of the interval regardless of pacing.
type Player struct {
	trace  Trace
	target Ticker
	opts   Options
	logger log.Log

	clock   *clock.Manual
	markers map[string]*tracking.Marker
	pair    tracking.Pair
	cursor  int
}

func NewPlayer(trace Trace, target Ticker, opts Options) (*Player, error) {
	if err := trace.Validate(); err != nil {
		return nil, err
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval %v must be positive", ErrInvalidTrace, opts.Interval)
	}
	p := &Player{
		trace:   trace,
		target:  target,
		opts:    opts,
		logger:  log.OrNop(opts.Logger).With(log.String("component", "replay"), log.String("trace", trace.Name)),
		clock:   clock.NewManual(0),
		markers: make(map[string]*tracking.Marker),
		cursor:  -1,
	}
	p.pair = tracking.Pair{A: p.marker(opts.MarkerA), B: p.marker(opts.MarkerB)}
	return p, nil
}

// Clock exposes the playback clock.
func (p *Player) Clock() clock.Clock { return p.clock }

// Marker returns the named marker, creating it untracked on first use.
func (p *Player) Marker(name string) *tracking.Marker { return p.marker(name) }

func (p *Player) marker(name string) *tracking.Marker {
	if name == "" {
		return nil
	}
	m, ok := p.markers[name]
	if !ok {
		m = tracking.NewMarker(name, p.opts.Logger)
		p.markers[name] = m
	}
	return m
}

// Run plays the whole trace. Cancelling ctx stops between frames and is not
// reported as an error.
func (p *Player) Run(ctx context.Context) (Stats, error) {
	end := p.trace.End()
	stats := Stats{End: end}

	var pace <-chan time.Time
	if p.opts.Realtime {
		t := time.NewTicker(p.opts.Interval)
		defer t.Stop()
		pace = t.C
	}

	p.logger.Info("replay started", log.Duration("end", end), log.Duration("interval", p.opts.Interval))
	for step := 0; ; step++ {
		now := time.Duration(step) * p.opts.Interval
		if now > end {
			break
		}
		if err := ctx.Err(); err != nil {
			stats.Interrupted = true
			break
		}

		p.clock.Set(now)
		p.target.Tick(p.Frame(p.clock.Now()))
		stats.Frames++

		if pace != nil {
			select {
			case <-ctx.Done():
				stats.Interrupted = true
			case <-pace:
			}
			if stats.Interrupted {
				break
			}
		}
	}
	stats.Keyframes = p.cursor + 1
	p.logger.Info("replay finished",
		log.Int("frames", stats.Frames),
		log.Int("keyframes", stats.Keyframes),
		log.Bool("interrupted", stats.Interrupted),
	)
	return stats, nil
}

// Frame applies every keyframe due at now and returns the resulting frame.
// Calls must use non-decreasing times.
func (p *Player) Frame(now time.Duration) systems.Frame {
	for p.cursor+1 < len(p.trace.Keyframes) && p.trace.Keyframes[p.cursor+1].At <= now {
		p.cursor++
		p.apply(p.trace.Keyframes[p.cursor])
	}

	f := systems.Frame{Now: now, Tracking: p.pair.Signal()}
	if p.cursor < 0 {
		return f
	}
	k := p.trace.Keyframes[p.cursor]
	if k.Probe != nil {
		probe := *k.Probe
		f.Probe = &probe
	}
	if k.Camera != nil {
		cam := *k.Camera
		f.Camera = &cam
	}
	return f
}

func (p *Player) apply(k Keyframe) {
	for name, u := range k.Markers {
		m := p.marker(name)
		if u.Tracked {
			m.Found(u.Position)
		} else {
			m.Lost()
		}
	}
}
