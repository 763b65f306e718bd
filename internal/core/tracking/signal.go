package tracking

import "github.com/zeusync/focusar/internal/core/systems/physics"

// Signal is the per-tick tracking input of the proximity controller.
// Distance is meaningful only when both entities are tracked.
type Signal struct {
	A        bool
	B        bool
	Distance float64
}

// Range returns the distance between the entities and whether it is defined.
func (s Signal) Range() (float64, bool) {
	if !s.A || !s.B {
		return 0, false
	}
	return s.Distance, true
}

// Source supplies a tracking signal once per tick.
type Source interface {
	Signal() Signal
}

// Pair derives a Signal from two markers.
type Pair struct {
	A *Marker
	B *Marker
}

var _ Source = Pair{}

// Signal reports each marker's tracked flag and, when both are tracked, the
// Euclidean distance between their positions. A nil marker counts as untracked.
func (p Pair) Signal() Signal {
	var s Signal
	var pa, pb physics.Vec3
	if p.A != nil && p.A.Tracked() {
		s.A = true
		pa = p.A.Position()
	}
	if p.B != nil && p.B.Tracked() {
		s.B = true
		pb = p.B.Position()
	}
	if s.A && s.B {
		s.Distance = physics.Distance(pa, pb)
	}
	return s
}

// Static is a Source replaying a fixed signal.
type Static Signal

func (s Static) Signal() Signal { return Signal(s) }
