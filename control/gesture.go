package control

import (
	"math"
	"math/rand"
	"time"

	"gravitysim/physics"
	"gravitysim/scenario"
	"gravitysim/sim"
)

// Spawn gesture tuning, per millisecond of button hold.
const (
	RadiusPerHoldMs = 1e5
	MassPerHoldMs   = 1e7
	MassBase        = 1e7

	// LaunchFactor scales the placement-to-click offset (in pixels at zoom 1) into a velocity.
	LaunchFactor = 0.1

	// DefaultMinRadius keeps instant clicks from producing a zero-radius body.
	DefaultMinRadius = RadiusPerHoldMs
)

// SpawnGesture turns press/hold/release pointer events into spawn requests.
// The first release places a pending body sized by how long the button was
// held; the second release launches it toward the release point.
type SpawnGesture struct {
	scale     float64
	minRadius float64
	rng       *rand.Rand

	pressed   bool
	holdStart time.Time
	pending   *sim.SpawnRequest
}

// NewSpawnGesture creates a gesture for a world shown at scale metres per pixel.
func NewSpawnGesture(scale float64, rng *rand.Rand) *SpawnGesture {
	return &SpawnGesture{
		scale:     scale,
		minRadius: DefaultMinRadius,
		rng:       rng,
	}
}

// Press records the start of a button hold.
func (g *SpawnGesture) Press(now time.Time) {
	g.pressed = true
	g.holdStart = now
}

// Release finishes a hold at world position at. It returns a request once the
// pending body has been launched.
func (g *SpawnGesture) Release(at physics.Vec2, now time.Time) (sim.SpawnRequest, bool) {
	holdMs := 0.0
	if g.pressed {
		holdMs = float64(now.Sub(g.holdStart)) / float64(time.Millisecond)
	}
	g.pressed = false

	if g.pending != nil {
		req := *g.pending
		req.Velocity = physics.Scale(physics.Sub(at, req.Position), LaunchFactor/g.scale)
		g.pending = nil
		return req, true
	}

	g.pending = &sim.SpawnRequest{
		Position: at,
		Radius:   math.Max(holdMs*RadiusPerHoldMs, g.minRadius),
		Mass:     math.Pow(holdMs*MassPerHoldMs+MassBase, 2),
		Color:    scenario.RandomColor(g.rng),
	}
	return sim.SpawnRequest{}, false
}

// Pending returns the placed but not yet launched body.
func (g *SpawnGesture) Pending() (sim.SpawnRequest, bool) {
	if g.pending == nil {
		return sim.SpawnRequest{}, false
	}
	return *g.pending, true
}

// Cancel drops the pending body and any hold in progress.
func (g *SpawnGesture) Cancel() {
	g.pending = nil
	g.pressed = false
}
