package physics

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync/atomic"
)

// EntityID is a unique identifier for a body.
// IDs survive reordering of the body collection, so callers can track a body
// across ticks without holding on to slice indices.
type EntityID uint64

// InvalidEntityID represents an unset body reference.
const InvalidEntityID EntityID = 0

var nextEntityID uint64

// generateEntityID creates a new unique entity ID. Safe for concurrent use.
func generateEntityID() EntityID {
	return EntityID(atomic.AddUint64(&nextEntityID, 1))
}

// DefaultColor is used for bodies created without an explicit colour.
var DefaultColor = color.RGBA{R: 200, G: 200, B: 255, A: 255}

// ErrInvalidBody is matched by every InvalidBodyError.
var ErrInvalidBody = errors.New("invalid body")

// InvalidBodyError reports a body parameter that would break the physics,
// such as a non-positive mass or radius.
type InvalidBodyError struct {
	Field string
	Value float64
}

func (e *InvalidBodyError) Error() string {
	return fmt.Sprintf("invalid body: %s must be positive and finite, got %g", e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidBody) work for any InvalidBodyError.
func (e *InvalidBodyError) Is(target error) bool {
	return target == ErrInvalidBody
}

// Body is a point mass with a collision radius.
type Body struct {
	ID EntityID

	// Position in simulation space (metres)
	Position Vec2

	// Velocity in metres per second
	Velocity Vec2

	// Acceleration accumulated during the current tick; zero between ticks
	Acceleration Vec2

	// Radius of the collision circle, always > 0
	Radius float64

	// Mass, always > 0
	Mass float64

	// Color is only used by renderers
	Color color.RGBA
}

// NewBody creates a body after validating mass and radius.
func NewBody(position Vec2, radius float64, velocity Vec2, mass float64, clr color.RGBA) (*Body, error) {
	if err := validatePositive("radius", radius); err != nil {
		return nil, err
	}
	if err := validatePositive("mass", mass); err != nil {
		return nil, err
	}
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"position.x", position.X},
		{"position.y", position.Y},
		{"velocity.x", velocity.X},
		{"velocity.y", velocity.Y},
	} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return nil, &InvalidBodyError{Field: c.field, Value: c.v}
		}
	}
	return &Body{
		ID:       generateEntityID(),
		Position: position,
		Velocity: velocity,
		Radius:   radius,
		Mass:     mass,
		Color:    clr,
	}, nil
}

func validatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidBodyError{Field: field, Value: v}
	}
	return nil
}

// DistanceTo returns the distance between the centres of two bodies.
func (b *Body) DistanceTo(other *Body) float64 {
	return Distance(b.Position, other.Position)
}

// Momentum returns m·v.
func (b *Body) Momentum() Vec2 {
	return Scale(b.Velocity, b.Mass)
}

// KineticEnergy returns ½·m·|v|².
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * SquaredMagnitude(b.Velocity)
}

// Integrate advances the body by dt using semi-implicit Euler (velocity first,
// then position from the new velocity) and clears the accumulated acceleration.
func (b *Body) Integrate(dt float64) {
	b.Velocity = Add(b.Velocity, Scale(b.Acceleration, dt))
	b.Position = Add(b.Position, Scale(b.Velocity, dt))
	b.Acceleration = Vec2{}
}
