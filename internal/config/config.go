package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"gravitysim/physics"
	"gravitysim/sim"
)

// EnvPrefix is the prefix for environment overrides, e.g. GRAVSIM_SIMULATION_TIME_SCALE.
const EnvPrefix = "GRAVSIM"

// EnvKeyReplacer maps nested keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Config is the root configuration for every gravitysim command.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Viewer     ViewerConfig     `mapstructure:"viewer" yaml:"viewer"`
	Run        RunConfig        `mapstructure:"run" yaml:"run"`
}

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SimulationConfig holds the physics parameters.
type SimulationConfig struct {
	GravitationalConstant float64 `mapstructure:"gravitational_constant" yaml:"gravitational_constant"`
	TimeScale             float64 `mapstructure:"time_scale" yaml:"time_scale"`

	// FPS sets the throttle: ticks whose scaled dt is at most 1000/FPS simulation
	// seconds are dropped. Zero disables the throttle.
	FPS float64 `mapstructure:"fps" yaml:"fps"`

	Gravity          bool    `mapstructure:"gravity" yaml:"gravity"`
	Merge            bool    `mapstructure:"merge" yaml:"merge"`
	Restitution      float64 `mapstructure:"restitution" yaml:"restitution"`
	AccelerationMode string  `mapstructure:"acceleration_mode" yaml:"acceleration_mode"`
	Workers          int     `mapstructure:"workers" yaml:"workers"`

	// Scenario is an optional scenario file loaded at startup and on reset.
	Scenario string `mapstructure:"scenario" yaml:"scenario"`
}

// ViewerConfig holds the window and rendering settings.
type ViewerConfig struct {
	ScreenWidth  int    `mapstructure:"screen_width" yaml:"screen_width"`
	ScreenHeight int    `mapstructure:"screen_height" yaml:"screen_height"`
	Title        string `mapstructure:"title" yaml:"title"`

	// Scale is the number of world metres per screen pixel at zoom 1.
	Scale float64 `mapstructure:"scale" yaml:"scale"`

	Trails      bool `mapstructure:"trails" yaml:"trails"`
	TrailLength int  `mapstructure:"trail_length" yaml:"trail_length"`

	Profile ProfileConfig `mapstructure:"profile" yaml:"profile"`
}

// ProfileConfig controls automatic CPU/trace capture on slow frames.
type ProfileConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	MinFPS   float64       `mapstructure:"min_fps" yaml:"min_fps"`
	Dir      string        `mapstructure:"dir" yaml:"dir"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	Cooldown time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
}

// RunConfig holds the headless runner settings.
type RunConfig struct {
	Ticks       int           `mapstructure:"ticks" yaml:"ticks"`
	Frame       time.Duration `mapstructure:"frame" yaml:"frame"`
	Realtime    bool          `mapstructure:"realtime" yaml:"realtime"`
	ReportEvery int           `mapstructure:"report_every" yaml:"report_every"`
}

// SetDefaults registers every default value with v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gravitysim")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Simulation --
	v.SetDefault("simulation.gravitational_constant", sim.DefaultGravitationalConstant)
	v.SetDefault("simulation.time_scale", sim.DefaultTimeScale)
	v.SetDefault("simulation.fps", sim.DefaultFPS)
	v.SetDefault("simulation.gravity", true)
	v.SetDefault("simulation.merge", true)
	v.SetDefault("simulation.restitution", sim.DefaultRestitution)
	v.SetDefault("simulation.acceleration_mode", physics.PerBodyMass.String())
	v.SetDefault("simulation.workers", 1)
	v.SetDefault("simulation.scenario", "")

	// -- Viewer --
	v.SetDefault("viewer.screen_width", 1280)
	v.SetDefault("viewer.screen_height", 800)
	v.SetDefault("viewer.title", "Gravity Simulator")
	v.SetDefault("viewer.scale", 1e6)
	v.SetDefault("viewer.trails", false)
	v.SetDefault("viewer.trail_length", 120)
	v.SetDefault("viewer.profile.enabled", false)
	v.SetDefault("viewer.profile.min_fps", 20.0)
	v.SetDefault("viewer.profile.dir", "profiles")
	v.SetDefault("viewer.profile.duration", "5s")
	v.SetDefault("viewer.profile.cooldown", "10s")

	// -- Run --
	v.SetDefault("run.ticks", 1000)
	v.SetDefault("run.frame", "100ms")
	v.SetDefault("run.realtime", false)
	v.SetDefault("run.report_every", 100)
}

// NewDefaultConfig returns a Config populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ExpandPaths resolves a leading ~ in every file path setting.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Logger.LogFile, &c.Simulation.Scenario, &c.Viewer.Profile.Dir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logger.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Simulation.FPS < 0 {
		return fmt.Errorf("simulation.fps must be >= 0, got %g", c.Simulation.FPS)
	}
	if _, err := c.SimConfig(); err != nil {
		return fmt.Errorf("simulation configuration invalid: %w", err)
	}
	if c.Viewer.ScreenWidth <= 0 || c.Viewer.ScreenHeight <= 0 {
		return fmt.Errorf("viewer screen size must be positive, got %dx%d", c.Viewer.ScreenWidth, c.Viewer.ScreenHeight)
	}
	if c.Viewer.Scale <= 0 {
		return fmt.Errorf("viewer.scale must be positive, got %g", c.Viewer.Scale)
	}
	if c.Viewer.TrailLength < 0 {
		return fmt.Errorf("viewer.trail_length must be >= 0, got %d", c.Viewer.TrailLength)
	}
	if c.Run.Ticks < 0 {
		return fmt.Errorf("run.ticks must be >= 0, got %d", c.Run.Ticks)
	}
	if c.Run.Frame <= 0 {
		return fmt.Errorf("run.frame must be positive, got %s", c.Run.Frame)
	}
	if c.Run.ReportEvery < 0 {
		return fmt.Errorf("run.report_every must be >= 0, got %d", c.Run.ReportEvery)
	}
	return nil
}

// SimConfig converts the simulation section into the core sim.Config.
func (c *Config) SimConfig() (sim.Config, error) {
	mode, ok := physics.ParseAccelerationMode(c.Simulation.AccelerationMode)
	if !ok {
		return sim.Config{}, fmt.Errorf("%w: unknown acceleration mode %q", sim.ErrInvalidConfig, c.Simulation.AccelerationMode)
	}

	minTick := 0.0
	if c.Simulation.FPS > 0 {
		minTick = 1000 / c.Simulation.FPS
	}

	cfg := sim.Config{
		GravitationalConstant: c.Simulation.GravitationalConstant,
		TimeScale:             c.Simulation.TimeScale,
		MinTickInterval:       minTick,
		GravityEnabled:        c.Simulation.Gravity,
		MergeEnabled:          c.Simulation.Merge,
		Restitution:           c.Simulation.Restitution,
		AccelerationMode:      mode,
		Workers:               c.Simulation.Workers,
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}
