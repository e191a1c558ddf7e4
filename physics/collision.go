package physics

// IsColliding reports whether the circles of a and b touch or overlap.
// The test only depends on the distance and the sum of radii, so it is symmetric.
func IsColliding(a, b *Body) bool {
	reach := a.Radius + b.Radius
	return SquaredMagnitude(Sub(a.Position, b.Position)) <= reach*reach
}

// Overlap returns how far the circles of a and b interpenetrate (negative when apart).
func Overlap(a, b *Body) float64 {
	return a.Radius + b.Radius - a.DistanceTo(b)
}
