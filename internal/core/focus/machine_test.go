package focus

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

const ms = time.Millisecond

type fixture struct {
	m    *Machine
	rec  *presentation.Recorder
	slot *audio.Slot
	bus  bus.EventBus
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	rec := presentation.NewRecorder()
	slot := audio.NewSlot(rec, nil)
	b := bus.New()
	m, err := New(cfg, Deps{
		Sink:      rec,
		Slot:      slot,
		Describer: presentation.Catalog{"X": "About X.", "Y": "About Y."},
		Clips:     audio.Clips{"X": "x.wav", "Y": "y.wav"},
		Bus:       b,
	})
	require.NoError(t, err)
	m.Start()
	return &fixture{m: m, rec: rec, slot: slot, bus: b}
}

func scenarioConfig() Config {
	return Config{
		MaxDistance:     5,
		Cooldown:        time.Second,
		FocusThreshold:  3 * time.Second,
		DisplayDuration: 5 * time.Second,
	}
}

func probe(id string) *systems.Probe { return &systems.Probe{ID: id} }

func TestActivatesAfterDwell(t *testing.T) {
	f := newFixture(t, scenarioConfig())

	res := f.m.Tick(0, probe("X"))
	assert.Equal(t, "X", res.Acquired)
	assert.Equal(t, PhaseFocusing, f.m.Phase())

	res = f.m.Tick(2900*ms, probe("X"))
	assert.Empty(t, res.Activated)
	assert.Equal(t, 0, f.rec.Count(presentation.KindShow))

	res = f.m.Tick(3000*ms, probe("X"))
	assert.Equal(t, "X", res.Activated)

	st := f.m.State()
	assert.True(t, st.Triggered)
	assert.True(t, st.Displaying)
	assert.Equal(t, 3*time.Second, st.LastTrigger)
	assert.Equal(t, 3*time.Second, st.DisplayStart)
	assert.Equal(t, PhaseTriggered, f.m.Phase())

	show, ok := f.rec.Last(presentation.KindShow)
	require.True(t, ok)
	assert.Equal(t, "X", show.ID)
	assert.Equal(t, "About X.", show.Text)
	h, playing := f.slot.Active()
	assert.True(t, playing)
	assert.Equal(t, audio.Handle("x.wav"), h)
}

func TestCooldownSuppressesFocusChange(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("X"))
	f.m.Tick(3000*ms, probe("X"))

	for _, at := range []time.Duration{3400 * ms, 3700 * ms, 3999 * ms} {
		res := f.m.Tick(at, probe("Y"))
		assert.True(t, res.Gated, "tick at %v", at)
		assert.Equal(t, "X", f.m.State().TargetID)
		assert.True(t, f.m.InCooldown(at))
	}

	res := f.m.Tick(4000*ms, probe("Y"))
	assert.False(t, res.Gated)
	assert.Equal(t, "Y", res.Acquired)
	assert.Equal(t, ResetRetarget, res.Reset)
	assert.Equal(t, 4*time.Second, f.m.State().FocusStart)
	assert.False(t, f.m.Displaying())

	_, playing := f.slot.Active()
	assert.False(t, playing)

	res = f.m.Tick(7000*ms, probe("Y"))
	assert.Equal(t, "Y", res.Activated)
}

func TestCooldownSuppressesLostReset(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("X"))
	f.m.Tick(3000*ms, probe("X"))
	require.Equal(t, 1, f.rec.Count(presentation.KindHide))

	res := f.m.Tick(3500*ms, nil)
	assert.True(t, res.Gated)
	assert.Equal(t, ResetNone, res.Reset)
	assert.True(t, f.m.Displaying())
	assert.Equal(t, 1, f.rec.Count(presentation.KindHide))
	_, playing := f.slot.Active()
	assert.True(t, playing)

	res = f.m.Tick(4000*ms, nil)
	assert.False(t, res.Gated)
	assert.Equal(t, ResetLost, res.Reset)
	assert.False(t, f.m.Displaying())
	assert.Equal(t, 2, f.rec.Count(presentation.KindHide))
}

func TestCooldownSuppressesDisplayTimeout(t *testing.T) {
	cfg := scenarioConfig()
	cfg.DisplayDuration = 500 * ms
	f := newFixture(t, cfg)
	f.m.Tick(0, probe("X"))
	f.m.Tick(3000*ms, probe("X"))

	res := f.m.Tick(3600*ms, probe("X"))
	assert.True(t, res.Gated)
	assert.True(t, f.m.Displaying(), "timeout elapsed but the tick is gated")
	assert.Equal(t, 1, f.rec.Count(presentation.KindHide))

	res = f.m.Tick(4000*ms, probe("X"))
	assert.Equal(t, ResetTimeout, res.Reset)
	assert.Equal(t, "X", res.Acquired)
	assert.False(t, f.m.Displaying())
	assert.Equal(t, 2, f.rec.Count(presentation.KindHide))
}

func TestDisplayTimesOut(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("X"))
	f.m.Tick(3000*ms, probe("X"))

	res := f.m.Tick(7900*ms, probe("X"))
	assert.Equal(t, ResetNone, res.Reset)
	assert.True(t, f.m.Displaying())

	res = f.m.Tick(8000*ms, probe("X"))
	assert.Equal(t, ResetTimeout, res.Reset)
	assert.False(t, f.m.Displaying())
	// start hide plus timeout hide
	assert.Equal(t, 2, f.rec.Count(presentation.KindHide))
	assert.Empty(t, f.rec.Playing())

	// still looking at X, so the same tick begins a new dwell on it
	assert.Equal(t, "X", res.Acquired)
	assert.Equal(t, 8*time.Second, f.m.State().FocusStart)
	assert.Empty(t, res.Activated)

	res = f.m.Tick(11000*ms, probe("X"))
	assert.Equal(t, "X", res.Activated)
}

func TestLosingCandidateClearsDisplay(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("X"))
	f.m.Tick(3000*ms, probe("X"))

	res := f.m.Tick(4500*ms, nil)
	assert.Equal(t, ResetLost, res.Reset)
	assert.Equal(t, PhaseIdle, f.m.Phase())
	assert.Empty(t, f.rec.Playing())
}

func TestLosingCandidateWhileFocusingKeepsDwell(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("X"))
	res := f.m.Tick(1000*ms, nil)
	assert.Equal(t, ResetNone, res.Reset)

	// the same candidate regained keeps its first focus start
	res = f.m.Tick(3000*ms, probe("X"))
	assert.Empty(t, res.Acquired)
	assert.Equal(t, "X", res.Activated)
}

func TestFocusChangeRestartsDwell(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("X"))
	f.m.Tick(2000*ms, probe("Y"))

	res := f.m.Tick(3000*ms, probe("Y"))
	assert.Empty(t, res.Activated)
	res = f.m.Tick(5000*ms, probe("Y"))
	assert.Equal(t, "Y", res.Activated)
}

func TestProbeBeyondMaxDistanceIsIgnored(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, &systems.Probe{ID: "X", Distance: 5.5})
	assert.Equal(t, PhaseIdle, f.m.Phase())

	f.m.Tick(0, &systems.Probe{ID: "X", Distance: 5})
	assert.Equal(t, PhaseFocusing, f.m.Phase())

	f.m.Tick(3000*ms, &systems.Probe{ID: "X", Distance: 4.2})
	res := f.m.Tick(4000*ms, &systems.Probe{ID: "X", Distance: 6})
	assert.Equal(t, ResetLost, res.Reset)
}

func TestZeroThresholdActivatesOnAcquire(t *testing.T) {
	cfg := scenarioConfig()
	cfg.FocusThreshold = 0
	f := newFixture(t, cfg)

	res := f.m.Tick(0, probe("X"))
	assert.Equal(t, "X", res.Acquired)
	assert.Equal(t, "X", res.Activated)
}

func TestCandidateWithoutAudioStillActivates(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	f.m.Tick(0, probe("Z"))
	res := f.m.Tick(3000*ms, probe("Z"))

	assert.Equal(t, "Z", res.Activated)
	show, ok := f.rec.Last(presentation.KindShow)
	require.True(t, ok)
	assert.Equal(t, presentation.FallbackDescription, show.Text)
	assert.Equal(t, 0, f.rec.Count(presentation.KindPlayAudio))
}

func TestPublishesEvents(t *testing.T) {
	f := newFixture(t, scenarioConfig())
	var types []string
	var activation Activation
	_, err := f.bus.SubscribeAll(func(e bus.Event) error {
		types = append(types, e.Type())
		if a, ok := e.Data().(Activation); ok {
			activation = a
		}
		return nil
	})
	require.NoError(t, err)

	f.m.Tick(0, probe("X"))
	f.m.Tick(3000*ms, probe("X"))
	f.m.Tick(4000*ms, nil)

	assert.Equal(t, []string{EventAcquired, EventActivated, EventReset}, types)
	assert.Equal(t, Activation{ID: "X", Text: "About X.", Audio: "x.wav", At: 3 * time.Second}, activation)
	assert.Equal(t, uint64(1), f.m.Activations())
}

func TestRunsWithoutCollaborators(t *testing.T) {
	m, err := New(scenarioConfig(), Deps{})
	require.NoError(t, err)
	m.Start()

	m.Tick(0, probe("X"))
	res := m.Tick(3000*ms, probe("X"))
	assert.Equal(t, "X", res.Activated)
	res = m.Tick(4000*ms, nil)
	assert.Equal(t, ResetLost, res.Reset)
}

func TestRejectsNegativeTimings(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Cooldown = -time.Second
	_, err := New(cfg, Deps{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = scenarioConfig()
	cfg.MaxDistance = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

// Random probe sequences must never leave two handles playing, never fire
// twice for one acquisition and never fire twice within a cooldown.
func TestInvariantsOverRandomProbes(t *testing.T) {
	candidates := []*systems.Probe{nil, probe("X"), probe("Y"), probe("Z"), {ID: "X", Distance: 9}}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		cfg := Config{
			MaxDistance:     5,
			Cooldown:        time.Duration(rng.Intn(3000)) * ms,
			FocusThreshold:  time.Duration(rng.Intn(2000)) * ms,
			DisplayDuration: time.Duration(500+rng.Intn(4000)) * ms,
		}
		f := newFixture(t, cfg)

		current := candidates[0]
		firedThisAcquisition := 0
		lastFire := time.Duration(-1)
		for tick := 0; tick < 1500; tick++ {
			now := time.Duration(tick) * 50 * ms
			if rng.Intn(10) == 0 {
				current = candidates[rng.Intn(len(candidates))]
			}
			res := f.m.Tick(now, current)

			if res.Acquired != "" {
				firedThisAcquisition = 0
			}
			if res.Activated != "" {
				firedThisAcquisition++
				require.LessOrEqual(t, firedThisAcquisition, 1, "seed %d tick %d", seed, tick)
				if lastFire >= 0 {
					require.GreaterOrEqual(t, now-lastFire, cfg.Cooldown, "seed %d tick %d", seed, tick)
				}
				lastFire = now
			}

			require.LessOrEqual(t, len(f.rec.Playing()), 1, "seed %d tick %d", seed, tick)
			st := f.m.State()
			if st.Displaying {
				require.True(t, st.Triggered)
			}
			if st.Triggered {
				require.True(t, st.HasTarget)
			}
		}
	}
}

func TestReticleFollowsCamera(t *testing.T) {
	rec := presentation.NewRecorder()
	r := &Reticle{Object: "reticle", Distance: 2, Sink: rec}
	r.Start()

	r.Update(systems.Frame{})
	camera := physics.Pose{Position: physics.Vec3{Y: 1}, Forward: physics.Vec3{Z: 1}}
	r.Update(systems.Frame{Camera: &camera})

	require.Len(t, rec.Commands(), 2)
	assert.Equal(t, presentation.KindSetActive, rec.Commands()[0].Kind)
	pos, ok := rec.Last(presentation.KindSetPos)
	require.True(t, ok)
	assert.Equal(t, physics.Vec3{Y: 1, Z: 2}, *pos.Vector)
	assert.Greater(t, r.Priority(), (&Machine{}).Priority())
}
