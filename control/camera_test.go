package control

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gravitysim/physics"
)

func TestCameraRoundTrip(t *testing.T) {
	cam := NewCamera(800, 600, 1e6)
	cam.X, cam.Y = 5e7, -2e7
	cam.ZoomIn()

	points := []physics.Vec2{{}, {X: 1e8, Y: 3e8}, {X: -4e6, Y: 2.5e7}}
	for _, p := range points {
		sx, sy := cam.WorldToScreen(p)
		got := cam.ScreenToWorld(sx, sy)
		assert.InDelta(t, p.X, got.X, 1e-3)
		assert.InDelta(t, p.Y, got.Y, 1e-3)
	}
}

func TestCameraCentreAndScale(t *testing.T) {
	cam := NewCamera(800, 600, 1e6)

	sx, sy := cam.WorldToScreen(physics.Vec2{})
	assert.Equal(t, 400.0, sx)
	assert.Equal(t, 300.0, sy)

	sx, _ = cam.WorldToScreen(physics.Vec2{X: 1e8})
	assert.Equal(t, 500.0, sx)
	assert.Equal(t, 10.0, cam.ScreenLength(1e7))
}

func TestCameraPanAndZoom(t *testing.T) {
	cam := NewCamera(800, 600, 1e6)

	cam.Pan(10, 0)
	assert.Equal(t, 1e7, cam.X)

	cam.ZoomIn()
	assert.InDelta(t, 1.1, cam.Zoom, 1e-12)
	cam.ZoomOut()
	assert.InDelta(t, 0.99, cam.Zoom, 1e-12)

	// Zooming keeps whatever is at the centre in place.
	centre := cam.ScreenToWorld(400, 300)
	assert.InDelta(t, 1e7, centre.X, 1e-6)

	cam.Resize(1024, 768)
	assert.Equal(t, 512.0, cam.Width/2)

	cam.Reset()
	assert.Equal(t, 1.0, cam.Zoom)
	assert.Equal(t, 0.0, cam.X)
}
