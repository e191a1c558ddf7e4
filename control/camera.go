// Package control holds the display-independent part of the interactive viewer:
// camera maths, the spawn gesture, trails and HUD text.
package control

import "gravitysim/physics"

// Zoom factors applied by ZoomIn and ZoomOut.
const (
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
)

// Camera represents the viewport into the world
type Camera struct {
	X, Y   float64 // World position (metres) shown at the screen centre
	Zoom   float64 // Zoom level
	Scale  float64 // World metres per screen pixel at zoom 1
	Width  float64 // Viewport width
	Height float64 // Viewport height
}

// NewCamera creates a new camera centred on the world origin
func NewCamera(width, height, scale float64) *Camera {
	return &Camera{
		Zoom:   1.0,
		Scale:  scale,
		Width:  width,
		Height: height,
	}
}

// WorldToScreen converts world coordinates to screen coordinates
func (c *Camera) WorldToScreen(p physics.Vec2) (float64, float64) {
	// Translate by camera position
	sx := p.X - c.X
	sy := p.Y - c.Y

	// Metres to pixels, then zoom
	sx = sx * c.Zoom / c.Scale
	sy = sy * c.Zoom / c.Scale

	// Translate to screen center
	return sx + c.Width/2, sy + c.Height/2
}

// ScreenToWorld converts screen coordinates to world coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) physics.Vec2 {
	// Translate from screen center
	wx := sx - c.Width/2
	wy := sy - c.Height/2

	// Apply inverse zoom and scale
	wx = wx * c.Scale / c.Zoom
	wy = wy * c.Scale / c.Zoom
	return physics.Vec2{X: wx + c.X, Y: wy + c.Y}
}

// ScreenLength converts a world distance into pixels.
func (c *Camera) ScreenLength(d float64) float64 {
	return d * c.Zoom / c.Scale
}

// Pan moves the view by the given number of screen pixels.
func (c *Camera) Pan(dxPixels, dyPixels float64) {
	c.X += dxPixels * c.Scale / c.Zoom
	c.Y += dyPixels * c.Scale / c.Zoom
}

// ZoomIn magnifies the view around the screen centre.
func (c *Camera) ZoomIn() {
	c.Zoom *= ZoomInFactor
}

// ZoomOut shrinks the view around the screen centre.
func (c *Camera) ZoomOut() {
	c.Zoom *= ZoomOutFactor
}

// Resize updates the viewport size, keeping the centre.
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

// Reset returns to the origin at zoom 1.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.Zoom = 1.0
}
