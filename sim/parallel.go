package sim

import (
	"sync"

	"gravitysim/physics"
)

// gravityScratch is one worker's private accumulator.
type gravityScratch struct {
	accel     []physics.Vec2
	potential float64
}

// accumulateGravityParallel is the multi-goroutine version of accumulateGravity.
// Rows of the pair triangle are dealt to workers round-robin to balance the work;
// each worker writes only its own scratch buffer, and the buffers are reduced in
// worker order afterwards so the result does not depend on scheduling.
func accumulateGravityParallel(bodies []*physics.Body, cfg Config) float64 {
	n := len(bodies)
	workers := cfg.Workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return accumulateGravity(bodies, cfg)
	}

	scratch := make([]gravityScratch, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		scratch[w].accel = make([]physics.Vec2, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := &scratch[w]
			for i := w; i < n; i += workers {
				for j := i + 1; j < n; j++ {
					if physics.IsColliding(bodies[i], bodies[j]) {
						continue
					}
					in := physics.Gravity(bodies[i], bodies[j], cfg.GravitationalConstant, cfg.AccelerationMode)
					acc.accel[i] = physics.Add(acc.accel[i], in.AccelA)
					acc.accel[j] = physics.Add(acc.accel[j], in.AccelB)
					acc.potential += in.Potential
				}
			}
		}()
	}
	wg.Wait()

	potential := 0.0
	for w := range scratch {
		for i, a := range scratch[w].accel {
			bodies[i].Acceleration = physics.Add(bodies[i].Acceleration, a)
		}
		potential += scratch[w].potential
	}
	return potential
}
