package physics

import "math"

// Strategy selects how a detected collision is resolved.
type Strategy int

const (
	// StrategyMerge combines the two bodies into one (perfectly inelastic).
	StrategyMerge Strategy = iota

	// StrategyBounce exchanges momentum along the contact normal and keeps both bodies.
	StrategyBounce
)

// String returns a short name for logs.
func (s Strategy) String() string {
	if s == StrategyBounce {
		return "bounce"
	}
	return "merge"
}

// Merge returns a new body that replaces a and b. Mass and momentum are conserved;
// the radius preserves the combined circle area.
func Merge(a, b *Body) *Body {
	mass := a.Mass + b.Mass
	momentum := Add(a.Momentum(), b.Momentum())

	// Keep the look of the dominant body.
	clr := a.Color
	if b.Mass > a.Mass {
		clr = b.Color
	}

	return &Body{
		ID:       generateEntityID(),
		Position: Scale(Add(a.Position, b.Position), 0.5),
		Velocity: Scale(momentum, 1/mass),
		Radius:   math.Sqrt(a.Radius*a.Radius + b.Radius*b.Radius),
		Mass:     mass,
		Color:    clr,
	}
}

// bounceFallbackNormal is used when the two centres coincide and the contact
// normal is undefined.
var bounceFallbackNormal = Vec2{X: 1, Y: 0}

// Bounce resolves a collision between a and b with an impulse along the contact
// normal. a is moved so the circles just touch, then the velocities change by the
// reduced-mass impulse scaled by (1 + restitution). Pairs that are already moving
// apart only get the positional correction. Both accelerations are cleared.
func Bounce(a, b *Body, restitution float64) {
	n := Normalize(Sub(a.Position, b.Position))
	if n.X == 0 && n.Y == 0 {
		n = bounceFallbackNormal
	}

	a.Position = Add(b.Position, Scale(n, a.Radius+b.Radius))

	approach := Dot(Sub(a.Velocity, b.Velocity), n)
	if approach < 0 {
		reduced := a.Mass * b.Mass / (a.Mass + b.Mass)
		j := -(1 + restitution) * approach * reduced
		a.Velocity = Add(a.Velocity, Scale(n, j/a.Mass))
		b.Velocity = Sub(b.Velocity, Scale(n, j/b.Mass))
	}

	a.Acceleration = Vec2{}
	b.Acceleration = Vec2{}
}
