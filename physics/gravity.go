package physics

import "math"

// SeparationEpsilon replaces a zero squared separation in the force law so two
// coincident bodies produce a large but finite force instead of Inf/NaN.
const SeparationEpsilon = 1e-10

// AccelerationMode selects how a pair's force is turned into accelerations.
type AccelerationMode int

const (
	// PerBodyMass divides the force on each body by that body's own mass (Newton's
	// second law).
	PerBodyMass AccelerationMode = iota

	// ReferenceMass divides both bodies' contributions by the first body's mass.
	// Momentum is not conserved when the masses differ; the mode only exists to
	// replay runs recorded with that rule.
	ReferenceMass
)

// String returns the config name of the mode.
func (m AccelerationMode) String() string {
	switch m {
	case PerBodyMass:
		return "per-body"
	case ReferenceMass:
		return "reference"
	default:
		return "unknown"
	}
}

// ParseAccelerationMode maps a config name back to its mode.
func ParseAccelerationMode(s string) (AccelerationMode, bool) {
	switch s {
	case "", "per-body":
		return PerBodyMass, true
	case "reference":
		return ReferenceMass, true
	default:
		return PerBodyMass, false
	}
}

// Interaction is the effect of gravity between two bodies during one tick.
type Interaction struct {
	// AccelA is added to the first body's acceleration
	AccelA Vec2

	// AccelB is added to the second body's acceleration
	AccelB Vec2

	// Potential is the gravitational potential energy of the pair (always <= 0)
	Potential float64
}

// Gravity computes the pairwise attraction between a and b without modifying them.
// g is the effective gravitational constant.
func Gravity(a, b *Body, g float64, mode AccelerationMode) Interaction {
	offset := Sub(b.Position, a.Position)
	r2 := SquaredMagnitude(offset)
	if r2 == 0 {
		r2 = SeparationEpsilon
	}

	magnitude := g * a.Mass * b.Mass / r2
	force := Scale(Normalize(offset), magnitude)

	divB := b.Mass
	if mode == ReferenceMass {
		divB = a.Mass
	}

	return Interaction{
		AccelA:    Scale(force, 1/a.Mass),
		AccelB:    Scale(force, -1/divB),
		Potential: -g * a.Mass * b.Mass / math.Sqrt(r2),
	}
}

// ApplyGravity accumulates the pair's accelerations into both bodies and returns
// the pair's potential energy.
func ApplyGravity(a, b *Body, g float64, mode AccelerationMode) float64 {
	in := Gravity(a, b, g, mode)
	a.Acceleration = Add(a.Acceleration, in.AccelA)
	b.Acceleration = Add(b.Acceleration, in.AccelB)
	return in.Potential
}
