// Package audio owns the single exclusivity slot shared by every subsystem
// that plays sound. At most one handle is playing at any tick boundary.
package audio

import (
	"github.com/zeusync/focusar/internal/core/observability/log"
)

// Handle names a playable clip.
type Handle string

// Player is the presentation-side audio output.
type Player interface {
	PlayAudio(h Handle)
	StopAudio(h Handle)
}

// Slot serializes audio ownership by sequencing: Play stops the current
// holder before starting the new one within the same call. Slot is driven
// from the tick goroutine only and is not safe for concurrent use.
type Slot struct {
	player  Player
	logger  log.Log
	active  Handle
	playing bool
}

// NewSlot creates an empty slot. A nil player leaves the slot in no-op mode:
// requests are accepted but nothing is played or tracked.
func NewSlot(player Player, logger log.Log) *Slot {
	return &Slot{player: player, logger: log.OrNop(logger).With(log.String("component", "audio"))}
}

// Enabled reports whether the slot has an output to drive.
func (s *Slot) Enabled() bool { return s.player != nil }

// Play claims the slot for h, stopping whatever held it.
func (s *Slot) Play(h Handle) {
	if s.player == nil || h == "" {
		return
	}
	s.Stop()
	s.player.PlayAudio(h)
	s.active = h
	s.playing = true
	s.logger.Debug("audio play", log.String("handle", string(h)))
}

// Stop stops the active handle, if any.
func (s *Slot) Stop() {
	if s.player == nil || !s.playing {
		return
	}
	h := s.active
	s.player.StopAudio(h)
	s.active = ""
	s.playing = false
	s.logger.Debug("audio stop", log.String("handle", string(h)))
}

// Active returns the handle currently holding the slot.
func (s *Slot) Active() (Handle, bool) {
	return s.active, s.playing
}
