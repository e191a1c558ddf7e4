// Package scenario loads initial body sets and parameter overrides from files.
package scenario

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/spf13/viper"

	"gravitysim/physics"
	"gravitysim/sim"
)

// ErrEmptyScenario is returned when a scenario file declares no bodies.
var ErrEmptyScenario = errors.New("scenario has no bodies")

// Scenario is an initial state read from a YAML, JSON or TOML file.
type Scenario struct {
	Name string `mapstructure:"name"`

	// AutoOrbit gives every body at rest a circular orbit around the first body
	AutoOrbit bool `mapstructure:"auto_orbit"`

	// Optional parameter overrides; nil keeps the running configuration
	GravitationalConstant *float64 `mapstructure:"gravitational_constant"`
	TimeScale             *float64 `mapstructure:"time_scale"`
	Gravity               *bool    `mapstructure:"gravity"`
	Merge                 *bool    `mapstructure:"merge"`

	Bodies []BodySpec `mapstructure:"bodies"`
}

// BodySpec is one body entry of a scenario.
type BodySpec struct {
	Pos    [2]float64 `mapstructure:"pos"`
	Vel    [2]float64 `mapstructure:"vel"`
	Radius float64    `mapstructure:"radius"`
	Mass   float64    `mapstructure:"mass"`
	Color  string     `mapstructure:"color"`
}

// Load reads a scenario file. The format is taken from the file extension.
func Load(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}
	if len(sc.Bodies) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyScenario)
	}
	return &sc, nil
}

// Configure returns cfg with the scenario's overrides applied.
func (sc *Scenario) Configure(cfg sim.Config) sim.Config {
	if sc.GravitationalConstant != nil {
		cfg.GravitationalConstant = *sc.GravitationalConstant
	}
	if sc.TimeScale != nil {
		cfg.TimeScale = *sc.TimeScale
	}
	if sc.Gravity != nil {
		cfg.GravityEnabled = *sc.Gravity
	}
	if sc.Merge != nil {
		cfg.MergeEnabled = *sc.Merge
	}
	return cfg
}

// Apply spawns every body of the scenario into s. The scenario is not modified.
// It stops at the first invalid body and reports its index.
func (sc *Scenario) Apply(s *sim.Simulation) error {
	bodies := make([]BodySpec, len(sc.Bodies))
	copy(bodies, sc.Bodies)
	if sc.AutoOrbit {
		SetOrbitalVelocities(bodies, s.Config().GravitationalConstant)
	}

	for i, b := range bodies {
		_, err := s.Spawn(sim.SpawnRequest{
			Position: physics.Vec2{X: b.Pos[0], Y: b.Pos[1]},
			Velocity: physics.Vec2{X: b.Vel[0], Y: b.Vel[1]},
			Radius:   b.Radius,
			Mass:     b.Mass,
			Color:    ParseColor(b.Color),
		})
		if err != nil {
			return fmt.Errorf("scenario %q body %d: %w", sc.Name, i, err)
		}
	}
	return nil
}

// SetOrbitalVelocities gives every body after the first that is at rest the
// speed of a circular orbit around bodies[0], perpendicular to its radius vector.
// Bodies sitting on the central body are left alone.
func SetOrbitalVelocities(bodies []BodySpec, g float64) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]
	for i := 1; i < len(bodies); i++ {
		if bodies[i].Vel[0] != 0 || bodies[i].Vel[1] != 0 {
			continue
		}
		dx := bodies[i].Pos[0] - central.Pos[0]
		dy := bodies[i].Pos[1] - central.Pos[1]
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := math.Sqrt(g * central.Mass / r)
		bodies[i].Vel[0] = -dy / r * v
		bodies[i].Vel[1] = dx / r * v
	}
}

// ParseColor parses "#rrggbb". Anything else yields physics.DefaultColor.
func ParseColor(hex string) color.RGBA {
	var r, g, b uint8
	if len(hex) == 7 && hex[0] == '#' {
		n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
		if err == nil && n == 3 {
			return color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	return physics.DefaultColor
}

// RandomColor picks a bright colour: the packed RGB value is drawn from the upper
// half of the 24-bit range.
func RandomColor(rng *rand.Rand) color.RGBA {
	n := 0x7fffff + rng.Intn(0x7fffff)
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
}
