package sim

import "gravitysim/physics"

// accumulateGravity adds the attraction of every unordered pair into the bodies'
// accelerations and returns the summed potential energy. Pairs that already touch
// are skipped so the force cannot blow up at near-zero separation.
func accumulateGravity(bodies []*physics.Body, cfg Config) float64 {
	potential := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if physics.IsColliding(bodies[i], bodies[j]) {
				continue
			}
			potential += physics.ApplyGravity(bodies[i], bodies[j], cfg.GravitationalConstant, cfg.AccelerationMode)
		}
	}
	return potential
}

// integrate moves every body by dt and returns the total kinetic energy
// measured with the updated velocities.
func integrate(bodies []*physics.Body, dt float64) float64 {
	kinetic := 0.0
	for _, b := range bodies {
		b.Integrate(dt)
		kinetic += b.KineticEnergy()
	}
	return kinetic
}
