// Package replay drives the engine from recorded tracking traces instead of a
// live AR session.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/focusar/internal/core/systems"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

var ErrInvalidTrace = errors.New("replay: invalid trace")

// Trace is an ordered list of keyframes. Each keyframe's probe and camera hold
// until the next keyframe; marker updates persist until changed.
type Trace struct {
	Name string `yaml:"name"`
	// Duration extends playback past the last keyframe. Zero stops at it.
	Duration  time.Duration `yaml:"duration"`
	Keyframes []Keyframe    `yaml:"keyframes"`
}

type Keyframe struct {
	At time.Duration `yaml:"at"`
	// Probe is the hit test result; absent means nothing is under the reticle.
	Probe   *systems.Probe          `yaml:"probe,omitempty"`
	Camera  *physics.Pose           `yaml:"camera,omitempty"`
	Markers map[string]MarkerUpdate `yaml:"markers,omitempty"`
}

type MarkerUpdate struct {
	Tracked  bool         `yaml:"tracked"`
	Position physics.Vec3 `yaml:"position"`
}

func (t Trace) Validate() error {
	if len(t.Keyframes) == 0 {
		return fmt.Errorf("%w: no keyframes", ErrInvalidTrace)
	}
	var prev time.Duration
	for i, k := range t.Keyframes {
		if k.At < 0 {
			return fmt.Errorf("%w: keyframe %d at %v is negative", ErrInvalidTrace, i, k.At)
		}
		if i > 0 && k.At <= prev {
			return fmt.Errorf("%w: keyframe %d at %v is not after %v", ErrInvalidTrace, i, k.At, prev)
		}
		prev = k.At
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidTrace)
	}
	return nil
}

// End is the last tick time of the trace.
func (t Trace) End() time.Duration {
	if len(t.Keyframes) == 0 {
		return t.Duration
	}
	return max(t.Duration, t.Keyframes[len(t.Keyframes)-1].At)
}

func Load(r io.Reader) (Trace, error) {
	var t Trace
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Trace{}, fmt.Errorf("decode trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Trace{}, err
	}
	return t, nil
}

func LoadFile(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return Load(f)
}
