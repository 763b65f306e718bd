package presentation

import (
	"sync"

	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/observability/log"
)

// Recorder is a Sink that keeps every command it receives, for tests and
// inspection of command streams.
type Recorder struct {
	CommandFunc

	mu       sync.Mutex
	commands []Command
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.CommandFunc = r.record
	return r
}

func (r *Recorder) record(c Command) {
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}

// Commands returns a copy of the recorded stream.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Count returns how many commands of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent command of kind.
func (r *Recorder) Last(kind Kind) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.commands) - 1; i >= 0; i-- {
		if r.commands[i].Kind == kind {
			return r.commands[i], true
		}
	}
	return Command{}, false
}

// Playing replays play/stop commands and returns the handles left playing.
func (r *Recorder) Playing() []audio.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var playing []audio.Handle
	for _, c := range r.commands {
		switch c.Kind {
		case KindPlayAudio:
			playing = append(playing, c.Audio)
		case KindStopAudio:
			for i, h := range playing {
				if h == c.Audio {
					playing = append(playing[:i], playing[i+1:]...)
					break
				}
			}
		}
	}
	return playing
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()
}

// NewLogSink returns a Sink that writes each command to the logger. Display
// and transform commands log at debug, audio and activation state at info.
func NewLogSink(logger log.Log) Sink {
	l := log.OrNop(logger).With(log.String("component", "presentation"))
	return CommandFunc(func(c Command) {
		fields := []log.Field{log.String("kind", string(c.Kind))}
		if c.ID != "" {
			fields = append(fields, log.String("id", c.ID))
		}
		if c.Audio != "" {
			fields = append(fields, log.String("audio", string(c.Audio)))
		}
		if c.Object != "" {
			fields = append(fields, log.String("object", c.Object))
		}
		if c.Vector != nil {
			fields = append(fields, log.Float64("x", c.Vector.X), log.Float64("y", c.Vector.Y), log.Float64("z", c.Vector.Z))
		}
		if c.Active != nil {
			fields = append(fields, log.Bool("active", *c.Active))
		}
		switch c.Kind {
		case KindShow, KindHide, KindSetOffset, KindAddScale, KindSetPos:
			l.Debug("presentation command", fields...)
		default:
			l.Info("presentation command", fields...)
		}
	})
}
