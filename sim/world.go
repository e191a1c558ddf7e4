package sim

import "gravitysim/physics"

// World owns the ordered collection of active bodies.
// Order is insertion order; merged bodies take the slot of the first body of the pair.
type World struct {
	// All active bodies, in insertion order
	Bodies []*physics.Body

	// removed marks slots scheduled for removal during the current collision pass
	removed []bool
}

// NewWorld creates an empty world with room for capacity bodies
func NewWorld(capacity int) *World {
	return &World{
		Bodies: make([]*physics.Body, 0, capacity),
	}
}

// Len returns the number of active bodies.
func (w *World) Len() int {
	return len(w.Bodies)
}

// Register appends a body to the world
func (w *World) Register(body *physics.Body) {
	w.Bodies = append(w.Bodies, body)
}

// Find returns the body with the given ID, or nil.
func (w *World) Find(id physics.EntityID) *physics.Body {
	for _, b := range w.Bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Unregister removes the body with the given ID, keeping the order of the others.
// It reports whether a body was removed.
func (w *World) Unregister(id physics.EntityID) bool {
	for i, b := range w.Bodies {
		if b.ID == id {
			copy(w.Bodies[i:], w.Bodies[i+1:])
			w.Bodies[len(w.Bodies)-1] = nil
			w.Bodies = w.Bodies[:len(w.Bodies)-1]
			return true
		}
	}
	return false
}

// Clear removes every body but keeps the capacity
func (w *World) Clear() {
	for i := range w.Bodies {
		w.Bodies[i] = nil
	}
	w.Bodies = w.Bodies[:0]
	w.removed = w.removed[:0]
}

// beginRemovals resets the pending-removal set for a new collision pass.
func (w *World) beginRemovals() {
	if cap(w.removed) < len(w.Bodies) {
		w.removed = make([]bool, len(w.Bodies))
		return
	}
	w.removed = w.removed[:len(w.Bodies)]
	for i := range w.removed {
		w.removed[i] = false
	}
}

// markRemoved schedules slot i for removal at the end of the pass.
func (w *World) markRemoved(i int) {
	w.removed[i] = true
}

// isRemoved reports whether slot i has been scheduled for removal.
func (w *World) isRemoved(i int) bool {
	return w.removed[i]
}

// commitRemovals drops every scheduled slot, preserving the order of survivors.
func (w *World) commitRemovals() int {
	kept := 0
	for i, b := range w.Bodies {
		if w.removed[i] {
			continue
		}
		w.Bodies[kept] = b
		kept++
	}
	dropped := len(w.Bodies) - kept
	for i := kept; i < len(w.Bodies); i++ {
		w.Bodies[i] = nil
	}
	w.Bodies = w.Bodies[:kept]
	return dropped
}
