package focus

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("focus: invalid config")

// Config holds the dwell trigger timings. Immutable after construction.
type Config struct {
	// MaxDistance discards probe hits reported farther than this. Zero disables the check.
	MaxDistance float64
	// Cooldown is the minimum time after an activation before the machine
	// evaluates anything again.
	Cooldown time.Duration
	// FocusThreshold is the dwell time needed on one candidate to activate it.
	FocusThreshold time.Duration
	// DisplayDuration bounds how long an activation stays visible.
	DisplayDuration time.Duration
}

// DefaultConfig returns the timings of the Focus AR experience.
func DefaultConfig() Config {
	return Config{
		MaxDistance:     5,
		Cooldown:        time.Second,
		FocusThreshold:  3 * time.Second,
		DisplayDuration: 10 * time.Second,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MaxDistance < 0:
		return fmt.Errorf("%w: max distance %v is negative", ErrInvalidConfig, c.MaxDistance)
	case c.Cooldown < 0:
		return fmt.Errorf("%w: cooldown %v is negative", ErrInvalidConfig, c.Cooldown)
	case c.FocusThreshold < 0:
		return fmt.Errorf("%w: focus threshold %v is negative", ErrInvalidConfig, c.FocusThreshold)
	case c.DisplayDuration < 0:
		return fmt.Errorf("%w: display duration %v is negative", ErrInvalidConfig, c.DisplayDuration)
	}
	return nil
}

// State is the machine's focus bookkeeping.
//
// Invariants: Displaying implies Triggered; Triggered implies HasTarget.
type State struct {
	TargetID     string
	HasTarget    bool
	FocusStart   time.Duration
	Triggered    bool
	Displaying   bool
	DisplayStart time.Duration
	LastTrigger  time.Duration
}

// Phase summarizes the focus part of State. Cooldown and display are
// separate predicates because an activation enters both at once.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseFocusing
	PhaseTriggered
)

func (p Phase) String() string {
	switch p {
	case PhaseFocusing:
		return "focusing"
	case PhaseTriggered:
		return "triggered"
	default:
		return "idle"
	}
}

// ResetReason tells why a display was cleared.
type ResetReason uint8

const (
	ResetNone ResetReason = iota
	// ResetTimeout: the display window elapsed.
	ResetTimeout
	// ResetLost: the probe stopped reporting a candidate.
	ResetLost
	// ResetRetarget: a different candidate was acquired.
	ResetRetarget
)

func (r ResetReason) String() string {
	switch r {
	case ResetTimeout:
		return "timeout"
	case ResetLost:
		return "lost"
	case ResetRetarget:
		return "retarget"
	default:
		return "none"
	}
}

// Result describes what one tick did.
type Result struct {
	// Gated is set when the cooldown short-circuited the tick.
	Gated bool
	// Reset is the last display reset performed this tick.
	Reset ResetReason
	// Acquired holds the identifier newly focused this tick.
	Acquired string
	// Activated holds the identifier activated this tick.
	Activated string
}

// Activation is the payload of an activation event.
type Activation struct {
	ID    string
	Text  string
	Audio string
	At    time.Duration
}
