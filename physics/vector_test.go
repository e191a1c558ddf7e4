package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorPrimitives(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: -1, Y: 2}

	assert.Equal(t, Vec2{X: 2, Y: 6}, Add(a, b))
	assert.Equal(t, Vec2{X: 4, Y: 2}, Sub(a, b))
	assert.Equal(t, Vec2{X: 6, Y: 8}, Scale(a, 2))
	assert.Equal(t, Vec2{X: -3, Y: -4}, Negate(a))
	assert.Equal(t, 5.0, Dot(a, b))
	assert.Equal(t, 25.0, SquaredMagnitude(a))
	assert.Equal(t, 5.0, Magnitude(a))
	assert.Equal(t, 5.0, Distance(Vec2{}, a))
}

func TestNormalize(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		n := Normalize(Vec2{X: 3, Y: 4})
		assert.InDelta(t, 0.6, n.X, 1e-12)
		assert.InDelta(t, 0.8, n.Y, 1e-12)
		assert.InDelta(t, 1.0, Magnitude(n), 1e-12)
	})

	t.Run("zero vector is returned unchanged", func(t *testing.T) {
		n := Normalize(Vec2{})
		assert.Equal(t, Vec2{}, n)
		assert.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y))
	})
}
