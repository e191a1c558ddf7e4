package sim

import (
	"errors"
	"fmt"
	"math"

	"gravitysim/physics"
)

// Default parameter values.
const (
	DefaultGravitationalConstant = 6.67e-11
	DefaultTimeScale             = 1e7
	DefaultFPS                   = 30.0
	DefaultMinTickInterval       = 1000.0 / DefaultFPS
	DefaultRestitution           = 1.0
)

// ErrInvalidConfig is matched by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds the tunable simulation parameters.
// A Config is a plain value; the Simulation applies a new one at the start of
// the next tick.
type Config struct {
	// GravitationalConstant is the effective G used in F = G·m1·m2/r²
	GravitationalConstant float64

	// TimeScale converts elapsed wall-clock seconds into simulation seconds
	TimeScale float64

	// MinTickInterval is the smallest scaled dt (simulation seconds) that runs a tick;
	// anything at or below it is dropped
	MinTickInterval float64

	// GravityEnabled turns pairwise attraction on or off
	GravityEnabled bool

	// MergeEnabled selects merge (true) or bounce (false) for collisions
	MergeEnabled bool

	// Restitution is the bounce coefficient, 1 for perfectly elastic
	Restitution float64

	// AccelerationMode selects how pair forces become accelerations
	AccelerationMode physics.AccelerationMode

	// Workers is the number of goroutines used for the gravity pass (<= 1 runs inline)
	Workers int
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		GravitationalConstant: DefaultGravitationalConstant,
		TimeScale:             DefaultTimeScale,
		MinTickInterval:       DefaultMinTickInterval,
		GravityEnabled:        true,
		MergeEnabled:          true,
		Restitution:           DefaultRestitution,
		AccelerationMode:      physics.PerBodyMass,
		Workers:               1,
	}
}

// Strategy returns the collision strategy selected by MergeEnabled.
func (c Config) Strategy() physics.Strategy {
	if c.MergeEnabled {
		return physics.StrategyMerge
	}
	return physics.StrategyBounce
}

// Validate checks the configuration for values that would break a tick.
func (c Config) Validate() error {
	if !finite(c.GravitationalConstant) || c.GravitationalConstant < 0 {
		return fmt.Errorf("%w: gravitational constant must be finite and >= 0, got %g", ErrInvalidConfig, c.GravitationalConstant)
	}
	if !finite(c.TimeScale) || c.TimeScale <= 0 {
		return fmt.Errorf("%w: time scale must be positive, got %g", ErrInvalidConfig, c.TimeScale)
	}
	if !finite(c.MinTickInterval) || c.MinTickInterval < 0 {
		return fmt.Errorf("%w: min tick interval must be >= 0, got %g", ErrInvalidConfig, c.MinTickInterval)
	}
	if !finite(c.Restitution) || c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("%w: restitution must be within [0, 1], got %g", ErrInvalidConfig, c.Restitution)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
