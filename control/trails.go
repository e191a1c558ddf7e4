package control

import (
	"gravitysim/physics"
	"gravitysim/sim"
)

// Trails keeps a bounded position history for every live body.
type Trails struct {
	max   int
	paths map[physics.EntityID][]physics.Vec2
}

// NewTrails creates a trail store keeping at most max points per body.
func NewTrails(max int) *Trails {
	return &Trails{
		max:   max,
		paths: make(map[physics.EntityID][]physics.Vec2),
	}
}

// Record appends the current position of every body in frame and forgets
// bodies that are gone, e.g. after a merge.
func (t *Trails) Record(frame sim.Frame) {
	if t.max == 0 {
		return
	}
	live := make(map[physics.EntityID]struct{}, len(frame.Bodies))
	for _, b := range frame.Bodies {
		live[b.ID] = struct{}{}
		path := append(t.paths[b.ID], b.Position)
		if len(path) > t.max {
			// Shift in place so the backing array does not grow without bound.
			copy(path, path[len(path)-t.max:])
			path = path[:t.max]
		}
		t.paths[b.ID] = path
	}
	for id := range t.paths {
		if _, ok := live[id]; !ok {
			delete(t.paths, id)
		}
	}
}

// Path returns the recorded positions of a body, oldest first.
func (t *Trails) Path(id physics.EntityID) []physics.Vec2 {
	return t.paths[id]
}

// Len returns the number of bodies with a trail.
func (t *Trails) Len() int {
	return len(t.paths)
}

// Clear forgets every trail.
func (t *Trails) Clear() {
	clear(t.paths)
}
