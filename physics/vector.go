package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D vector in simulation space (metres, metres/second, ...).
type Vec2 = r2.Vec

// Add returns a + b.
func Add(a, b Vec2) Vec2 {
	return r2.Add(a, b)
}

// Sub returns a - b.
func Sub(a, b Vec2) Vec2 {
	return r2.Sub(a, b)
}

// Scale returns v scaled by s.
func Scale(v Vec2, s float64) Vec2 {
	return r2.Scale(s, v)
}

// Negate returns -v.
func Negate(v Vec2) Vec2 {
	return Scale(v, -1)
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return r2.Dot(a, b)
}

// SquaredMagnitude returns |v|².
func SquaredMagnitude(v Vec2) float64 {
	return Dot(v, v)
}

// Magnitude returns |v|.
func Magnitude(v Vec2) float64 {
	return math.Sqrt(SquaredMagnitude(v))
}

// Distance returns the distance between points a and b.
func Distance(a, b Vec2) float64 {
	return Magnitude(Sub(a, b))
}

// Normalize returns the unit vector in the direction of v.
// The zero vector has no direction and is returned unchanged.
func Normalize(v Vec2) Vec2 {
	if v.X == 0 && v.Y == 0 {
		return v
	}
	return r2.Unit(v)
}
