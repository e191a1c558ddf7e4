package sim

import (
	"image/color"

	"gravitysim/physics"
)

// Energy holds the mechanical energy totals measured during a tick.
type Energy struct {
	// Kinetic is Σ ½·m·|v|² after integration
	Kinetic float64

	// Potential is Σ -G·m1·m2/r over the pairs that attracted each other
	Potential float64
}

// Total returns kinetic + potential energy.
func (e Energy) Total() float64 {
	return e.Kinetic + e.Potential
}

// Bound reports whether the system is gravitationally bound (total energy < 0).
func (e Energy) Bound() bool {
	return e.Total() < 0
}

// Unbound reports whether total energy is non-negative, i.e. at least one body can
// escape. This is a diagnostic only; the simulation never corrects it.
func (e Energy) Unbound() bool {
	return !e.Bound()
}

// CollisionEvent records one resolved collision.
type CollisionEvent struct {
	Strategy physics.Strategy

	// A and B are the IDs of the colliding bodies
	A, B physics.EntityID

	// Result is the merged body's ID, or InvalidEntityID for a bounce
	Result physics.EntityID
}

// Report summarises one executed tick.
type Report struct {
	// Tick is the 1-based index of the tick
	Tick uint64

	// DT is the simulation time the tick advanced by
	DT float64

	Energy Energy

	Collisions []CollisionEvent

	// Bodies is the body count after collision resolution
	Bodies int
}

// Merges returns how many collisions in the tick were merges.
func (r Report) Merges() int {
	n := 0
	for _, c := range r.Collisions {
		if c.Strategy == physics.StrategyMerge {
			n++
		}
	}
	return n
}

// BodyView is a read-only copy of a body for renderers and reports.
type BodyView struct {
	ID       physics.EntityID
	Position physics.Vec2
	Velocity physics.Vec2
	Radius   float64
	Mass     float64
	Color    color.RGBA
}

func viewOf(b *physics.Body) BodyView {
	return BodyView{
		ID:       b.ID,
		Position: b.Position,
		Velocity: b.Velocity,
		Radius:   b.Radius,
		Mass:     b.Mass,
		Color:    b.Color,
	}
}

// Frame is everything a renderer needs to draw the current state.
type Frame struct {
	Tick   uint64
	State  State
	Bodies []BodyView
	Energy Energy
}
