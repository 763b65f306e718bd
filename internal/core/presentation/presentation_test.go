package presentation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

func TestCatalogFallback(t *testing.T) {
	c := DefaultCatalog()
	assert.True(t, strings.HasPrefix(c.Describe("Turbofan"), "The turbofan is a type of jet engine"))
	assert.Equal(t, FallbackDescription, c.Describe("Unknown_Part"))
	assert.Equal(t, FallbackDescription, Catalog(nil).Describe("Turbofan"))
}

func TestLoadCatalogAndMerge(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader("Gripper: Custom gripper text.\nWheel: A wheel.\n"))
	require.NoError(t, err)

	merged := DefaultCatalog().Merge(c)
	assert.Equal(t, "Custom gripper text.", merged.Describe("Gripper"))
	assert.Equal(t, "A wheel.", merged.Describe("Wheel"))
	assert.NotEqual(t, FallbackDescription, merged.Describe("arm"))

	empty, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = LoadCatalog(strings.NewReader("- not\n- a map\n"))
	assert.Error(t, err)
}

func TestCaption(t *testing.T) {
	assert.Equal(t, "Focused on: arm\nAn arm.", Caption("arm", "An arm."))
}

func TestRecorderCapturesSinkCalls(t *testing.T) {
	r := NewRecorder()
	var s Sink = r

	s.Show("arm", "An arm.")
	s.PlayAudio("arm.wav")
	s.SetOffset("content", physics.Vec3{Y: 0.75})
	s.SetActive("label", true)
	s.StopAudio("arm.wav")
	s.PlayAudio("fan.wav")
	s.Hide()

	assert.Len(t, r.Commands(), 7)
	assert.Equal(t, 2, r.Count(KindPlayAudio))
	assert.Equal(t, []audio.Handle{"fan.wav"}, r.Playing())

	off, ok := r.Last(KindSetOffset)
	require.True(t, ok)
	assert.Equal(t, "content", off.Object)
	assert.Equal(t, 0.75, off.Vector.Y)

	act, ok := r.Last(KindSetActive)
	require.True(t, ok)
	assert.True(t, *act.Active)

	r.Reset()
	assert.Empty(t, r.Commands())
	_, ok = r.Last(KindHide)
	assert.False(t, ok)
}

func TestFanoutReplaysToEverySink(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	s := Fanout(a, nil, b)

	s.Show("Turbofan", "text")
	s.AccumulateScale("content", physics.Splat(-0.03))
	s.SetPosition("reticle", physics.Vec3{Z: 2})
	s.SetActive("label", false)

	assert.Equal(t, a.Commands(), b.Commands())
	require.Len(t, a.Commands(), 4)
	assert.Equal(t, physics.Splat(-0.03), *a.Commands()[1].Vector)
	assert.False(t, *a.Commands()[3].Active)
}

func TestLogSinkLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewLogSink(log.NewWithCore(core, log.LevelInfo))

	s.SetOffset("content", physics.Vec3{Y: 1})
	s.Show("arm", "An arm.")
	s.PlayAudio("arm.wav")
	s.SetActive("reticle", true)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "arm.wav", logs.All()[0].ContextMap()["audio"])
	assert.Equal(t, true, logs.All()[1].ContextMap()["active"])
}
