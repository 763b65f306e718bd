package proximity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems"
	"github.com/zeusync/focusar/internal/core/systems/physics"
	"github.com/zeusync/focusar/internal/core/tracking"
)

func newController(t *testing.T, scale physics.Vec3) (*Controller, *presentation.Recorder) {
	t.Helper()
	rec := presentation.NewRecorder()
	c, err := New(DefaultConfig(), &Target{
		Object: "content",
		Scale:  scale,
		Offset: physics.Vec3{X: 0.1, Y: 0.75, Z: -0.2},
	}, Deps{Sink: rec})
	require.NoError(t, err)
	return c, rec
}

func TestCloseMarkersShrinkUntilCap(t *testing.T) {
	c, rec := newController(t, physics.Splat(1))
	assert.Equal(t, physics.Splat(-0.5), c.Cap())

	for i := 0; i < 5; i++ {
		step, ok := c.Tick(time.Duration(i)*time.Second, 0.8, true)
		require.True(t, ok)
		assert.Equal(t, physics.Splat(-0.03), step.Delta)
	}
	assert.InDelta(t, 0.85, c.Scale().X, 1e-9)
	assert.InDelta(t, 0.85, c.Scale().Y, 1e-9)
	assert.InDelta(t, 0.85, c.Scale().Z, 1e-9)
	assert.Equal(t, 5, rec.Count(presentation.KindAddScale))
	assert.Equal(t, 5, rec.Count(presentation.KindSetOffset))

	ticks := 5
	for !c.Frozen() {
		c.Tick(0, 0.8, true)
		ticks++
		require.Less(t, ticks, 100)
	}
	frozen := c.Scale()
	assert.LessOrEqual(t, frozen.X, -0.5)
	assert.Greater(t, frozen.X, -0.5-0.03-1e-9)

	rec.Reset()
	step, ok := c.Tick(0, 0.2, true)
	assert.True(t, ok)
	assert.Equal(t, physics.Vec3{}, step.Delta)
	assert.Equal(t, frozen, c.Scale())
	assert.Equal(t, 0, rec.Count(presentation.KindAddScale))
	assert.Equal(t, 1, rec.Count(presentation.KindSetOffset))
}

func TestAxesClampIndependently(t *testing.T) {
	c, _ := newController(t, physics.Vec3{X: 1, Y: 0.1, Z: 1})
	assert.Equal(t, physics.Vec3{X: -0.5, Y: -0.05, Z: -0.5}, c.Cap())

	for i := 0; i < 10; i++ {
		c.Tick(0, 0.5, true)
	}
	s := c.Scale()
	assert.LessOrEqual(t, s.Y, -0.05)
	assert.Greater(t, s.Y, -0.05-0.03-1e-9)
	assert.InDelta(t, 0.7, s.X, 1e-9)
	assert.InDelta(t, 0.7, s.Z, 1e-9)
	assert.False(t, c.Frozen())
}

func TestUntrackedPausesAccumulation(t *testing.T) {
	c, rec := newController(t, physics.Splat(1))
	_, ok := c.Tick(0, 0.8, false)
	assert.False(t, ok)
	assert.Empty(t, rec.Commands())
	assert.Equal(t, physics.Splat(1), c.Scale())

	c.Update(systems.Frame{Tracking: tracking.Signal{A: true, B: false, Distance: 0.8}})
	assert.Empty(t, rec.Commands())

	c.Update(systems.Frame{Tracking: tracking.Signal{A: true, B: true, Distance: 3.7}})
	assert.InDelta(t, 0.9999, c.Scale().X, 1e-12)
}

func TestRepositionIsIdempotent(t *testing.T) {
	c, rec := newController(t, physics.Splat(1))
	c.Tick(0, 1.2, true)

	first := c.Reposition()
	second := c.Reposition()
	assert.Equal(t, first, second)
	assert.InDelta(t, c.Scale().Y*0.5+0.25, first.Y, 1e-12)
	assert.Equal(t, 0.1, first.X)
	assert.Equal(t, -0.2, first.Z)

	last, ok := rec.Last(presentation.KindSetOffset)
	require.True(t, ok)
	assert.Equal(t, "content", last.Object)
	assert.Equal(t, first, *last.Vector)
}

func TestPublishesScaledEvents(t *testing.T) {
	b := bus.New()
	var steps []Step
	_, err := b.Subscribe(EventScaled, func(e bus.Event) error {
		steps = append(steps, e.Data().(Step))
		return nil
	})
	require.NoError(t, err)

	c, err := New(DefaultConfig(), &Target{Object: "content", Scale: physics.Splat(1)}, Deps{Bus: b})
	require.NoError(t, err)
	c.Tick(time.Second, 2.2, true)

	require.Len(t, steps, 1)
	assert.Equal(t, -0.005, steps[0].Multiplier)
	assert.Equal(t, 2.2, steps[0].Distance)
}

func TestMissingTargetIsNoop(t *testing.T) {
	rec := presentation.NewRecorder()
	c, err := New(DefaultConfig(), nil, Deps{Sink: rec})
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	_, ok := c.Tick(0, 0.5, true)
	assert.False(t, ok)
	assert.Equal(t, physics.Vec3{}, c.Reposition())
	assert.Empty(t, rec.Commands())
}

func TestRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapFactor = 0
	_, err := New(cfg, nil, Deps{})
	assert.ErrorIs(t, err, ErrInvalidCapFactor)

	_, err = New(Config{CapFactor: -2}, nil, Deps{})
	assert.ErrorIs(t, err, ErrInvalidCurve)
}
