// Package presentation defines the output side of the interaction core: the
// commands it issues to whatever renders the AR scene, and the description
// catalog consulted when a candidate activates.
package presentation

import (
	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

// Sink receives every command the core produces.
type Sink interface {
	audio.Player

	// Show opens the information display for id with its looked-up description.
	Show(id, text string)
	// Hide closes the information display.
	Hide()
	// SetOffset sets an object's local offset relative to its anchor.
	SetOffset(object string, offset physics.Vec3)
	// AccumulateScale adds delta to an object's local scale.
	AccumulateScale(object string, delta physics.Vec3)
	// SetPosition places an object in world space.
	SetPosition(object string, position physics.Vec3)
	// SetActive enables or disables an object.
	SetActive(object string, active bool)
}

// Kind tags a Command.
type Kind string

const (
	KindShow      Kind = "show"
	KindHide      Kind = "hide"
	KindPlayAudio Kind = "play_audio"
	KindStopAudio Kind = "stop_audio"
	KindSetOffset Kind = "set_offset"
	KindAddScale  Kind = "accumulate_scale"
	KindSetPos    Kind = "set_position"
	KindSetActive Kind = "set_active"
)

// Command is the serializable form of one Sink call.
type Command struct {
	Kind   Kind          `json:"kind"`
	ID     string        `json:"id,omitempty"`
	Text   string        `json:"text,omitempty"`
	Audio  audio.Handle  `json:"audio,omitempty"`
	Object string        `json:"object,omitempty"`
	Vector *physics.Vec3 `json:"vector,omitempty"`
	Active *bool         `json:"active,omitempty"`
}

// CommandFunc adapts a function receiving Commands into a Sink.
type CommandFunc func(Command)

var _ Sink = CommandFunc(nil)

func (f CommandFunc) Show(id, text string) { f(Command{Kind: KindShow, ID: id, Text: text}) }
func (f CommandFunc) Hide()                { f(Command{Kind: KindHide}) }

func (f CommandFunc) PlayAudio(h audio.Handle) { f(Command{Kind: KindPlayAudio, Audio: h}) }
func (f CommandFunc) StopAudio(h audio.Handle) { f(Command{Kind: KindStopAudio, Audio: h}) }

func (f CommandFunc) SetOffset(object string, offset physics.Vec3) {
	f(Command{Kind: KindSetOffset, Object: object, Vector: &offset})
}

func (f CommandFunc) AccumulateScale(object string, delta physics.Vec3) {
	f(Command{Kind: KindAddScale, Object: object, Vector: &delta})
}

func (f CommandFunc) SetPosition(object string, position physics.Vec3) {
	f(Command{Kind: KindSetPos, Object: object, Vector: &position})
}

func (f CommandFunc) SetActive(object string, active bool) {
	f(Command{Kind: KindSetActive, Object: object, Active: &active})
}

// Apply replays a Command onto a Sink.
func Apply(s Sink, c Command) {
	switch c.Kind {
	case KindShow:
		s.Show(c.ID, c.Text)
	case KindHide:
		s.Hide()
	case KindPlayAudio:
		s.PlayAudio(c.Audio)
	case KindStopAudio:
		s.StopAudio(c.Audio)
	case KindSetOffset:
		s.SetOffset(c.Object, vec(c.Vector))
	case KindAddScale:
		s.AccumulateScale(c.Object, vec(c.Vector))
	case KindSetPos:
		s.SetPosition(c.Object, vec(c.Vector))
	case KindSetActive:
		s.SetActive(c.Object, c.Active != nil && *c.Active)
	}
}

func vec(v *physics.Vec3) physics.Vec3 {
	if v == nil {
		return physics.Vec3{}
	}
	return *v
}

// Fanout forwards every command to each sink in order. Nil sinks are skipped.
func Fanout(sinks ...Sink) Sink {
	live := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return CommandFunc(func(c Command) {
		for _, s := range live {
			Apply(s, c)
		}
	})
}
