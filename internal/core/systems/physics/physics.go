// Package physics holds the small vector and pose types the interaction core
// computes with. Pose estimation itself happens in the external tracker.
package physics

import "math"

// Vec3 is a 3D vector in tracker units.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Splat returns a vector with all components set to s.
func Splat(s float64) Vec3 { return Vec3{s, s, s} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale multiplies every component by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Div divides every component by s. Division by zero yields infinities per IEEE 754.
func (v Vec3) Div(s float64) Vec3 { return Vec3{v.X / s, v.Y / s, v.Z / s} }

func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Axis returns component i (0=x, 1=y, 2=z).
func (v Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithAxis returns a copy of v with component i replaced.
func (v Vec3) WithAxis(i int, val float64) Vec3 {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// Distance computes the Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Length() }

// Pose is a position plus a unit forward direction.
type Pose struct {
	Position Vec3 `json:"position" yaml:"position"`
	Forward  Vec3 `json:"forward" yaml:"forward"`
}

// PointAhead returns the point d units along the pose's forward direction.
// This is where the reticle sits in front of the camera.
func (p Pose) PointAhead(d float64) Vec3 {
	return p.Position.Add(p.Forward.Scale(d))
}
