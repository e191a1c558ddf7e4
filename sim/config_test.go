package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"gravitysim/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, physics.StrategyMerge, cfg.Strategy())
	assert.InDelta(t, 33.333, cfg.MinTickInterval, 1e-3)
	assert.True(t, cfg.GravityEnabled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative G", func(c *Config) { c.GravitationalConstant = -1 }},
		{"NaN G", func(c *Config) { c.GravitationalConstant = math.NaN() }},
		{"zero time scale", func(c *Config) { c.TimeScale = 0 }},
		{"infinite time scale", func(c *Config) { c.TimeScale = math.Inf(1) }},
		{"negative min tick", func(c *Config) { c.MinTickInterval = -1 }},
		{"restitution above one", func(c *Config) { c.Restitution = 1.5 }},
		{"negative restitution", func(c *Config) { c.Restitution = -0.1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestConfigStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeEnabled = false
	assert.Equal(t, physics.StrategyBounce, cfg.Strategy())
}
