package proximity

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidCurve = errors.New("proximity: invalid response curve")

// Band maps distances from Lower up to the next band's Lower to Multiplier.
type Band struct {
	Lower      float64 `yaml:"lower" json:"lower"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// ResponseCurve is a quantized step function from distance to a per-tick
// scale multiplier. Bands are lower-inclusive and upper-exclusive; the last
// band extends to +Inf and Below covers everything under the first band.
type ResponseCurve struct {
	below float64
	bands []Band
}

// NewCurve validates and copies the bands. Bounds must be finite and
// strictly ascending.
func NewCurve(below float64, bands []Band) (ResponseCurve, error) {
	if len(bands) == 0 {
		return ResponseCurve{}, fmt.Errorf("%w: no bands", ErrInvalidCurve)
	}
	if math.IsNaN(below) || math.IsInf(below, 0) {
		return ResponseCurve{}, fmt.Errorf("%w: below multiplier %v", ErrInvalidCurve, below)
	}
	for i, b := range bands {
		if math.IsNaN(b.Lower) || math.IsInf(b.Lower, 0) || math.IsNaN(b.Multiplier) || math.IsInf(b.Multiplier, 0) {
			return ResponseCurve{}, fmt.Errorf("%w: band %d is not finite", ErrInvalidCurve, i)
		}
		if i > 0 && b.Lower <= bands[i-1].Lower {
			return ResponseCurve{}, fmt.Errorf("%w: band %d lower bound %v not above %v", ErrInvalidCurve, i, b.Lower, bands[i-1].Lower)
		}
	}
	out := make([]Band, len(bands))
	copy(out, bands)
	return ResponseCurve{below: below, bands: out}, nil
}

// DefaultCurve is the two-marker minus interaction curve: the closer the
// markers, the larger the per-tick step.
func DefaultCurve() ResponseCurve {
	return ResponseCurve{
		below: -0.03,
		bands: []Band{
			{Lower: 1.0, Multiplier: -0.02},
			{Lower: 1.5, Multiplier: -0.01},
			{Lower: 2.0, Multiplier: -0.005},
			{Lower: 2.5, Multiplier: -0.001},
			{Lower: 3.0, Multiplier: -0.0005},
			{Lower: 3.5, Multiplier: -0.0001},
		},
	}
}

// Lookup scans bands in ascending order and returns the multiplier of the
// interval containing d. A distance equal to a bound belongs to the band
// starting there.
func (c ResponseCurve) Lookup(d float64) float64 {
	m := c.below
	for _, b := range c.bands {
		if d < b.Lower {
			break
		}
		m = b.Multiplier
	}
	return m
}

// Below is the multiplier under the first band.
func (c ResponseCurve) Below() float64 { return c.below }

// Bands returns a copy of the bands.
func (c ResponseCurve) Bands() []Band {
	out := make([]Band, len(c.bands))
	copy(out, c.bands)
	return out
}
