package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gravitysim/internal/config"
	"gravitysim/internal/observability"
	"gravitysim/scenario"
	"gravitysim/sim"
)

// flagKeys maps command line flags onto configuration keys. Flags only override
// the file and environment when they are set explicitly.
var flagKeys = map[string]string{
	"log-level":         "logger.level",
	"log-format":        "logger.format",
	"log-file":          "logger.log_file",
	"scenario":          "simulation.scenario",
	"time-scale":        "simulation.time_scale",
	"fps":               "simulation.fps",
	"gravity":           "simulation.gravity",
	"merge":             "simulation.merge",
	"restitution":       "simulation.restitution",
	"acceleration-mode": "simulation.acceleration_mode",
	"workers":           "simulation.workers",
	"ticks":             "run.ticks",
	"frame":             "run.frame",
	"realtime":          "run.realtime",
	"report-every":      "run.report_every",
	"scale":             "viewer.scale",
	"trails":            "viewer.trails",
	"profile":           "viewer.profile.enabled",
}

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// newRootCmd builds the command tree around a fresh viper instance.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)
	defaults := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "gravitysim",
		Short:         "gravitysim simulates Newtonian gravity between bodies in a plane.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initializeConfig(cmd); err != nil {
				observability.InitializeLogger(defaults.Logger)
				return err
			}
			observability.InitializeLogger(a.cfg.Logger)
			a.logger = observability.GetLogger()
			a.logger.Debug("Configuration loaded", zap.String("config_file", a.v.ConfigFileUsed()))
			return nil
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./gravitysim.yaml)")
	pf.String("log-level", defaults.Logger.Level, "log level (debug, info, warn, error)")
	pf.String("log-format", defaults.Logger.Format, "log format (console or json)")
	pf.String("log-file", defaults.Logger.LogFile, "also write JSON logs to this rotating file")
	pf.StringP("scenario", "s", "", "scenario file with the initial bodies")
	pf.Float64("time-scale", defaults.Simulation.TimeScale, "simulation seconds per wall-clock second")
	pf.Float64("fps", defaults.Simulation.FPS, "throttle target; 0 runs every frame")
	pf.Bool("gravity", defaults.Simulation.Gravity, "enable gravitational attraction")
	pf.Bool("merge", defaults.Simulation.Merge, "merge colliding bodies instead of bouncing them")
	pf.Float64("restitution", defaults.Simulation.Restitution, "bounce restitution in [0, 1]")
	pf.String("acceleration-mode", defaults.Simulation.AccelerationMode, "per-body or reference")
	pf.Int("workers", defaults.Simulation.Workers, "goroutines for the gravity pass")

	rootCmd.AddCommand(newRunCmd(a), newViewCmd(a), newVersionCmd())
	return rootCmd
}

// Execute runs the root command with a context cancelled by SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

// initializeConfig reads the config file and environment, binds the flags of
// cmd and decodes the result into a.cfg.
func (a *app) initializeConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		path, err := homedir.Expand(a.cfgFile)
		if err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
		a.v.SetConfigFile(path)
	} else {
		a.v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".gravitysim"))
		}
		a.v.SetConfigName("gravitysim")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(config.EnvKeyReplacer)
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.NewConfigFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// buildSimulation creates the simulation and applies the configured scenario, if any.
func (a *app) buildSimulation() (*sim.Simulation, *scenario.Scenario, error) {
	simCfg, err := a.cfg.SimConfig()
	if err != nil {
		return nil, nil, err
	}

	var sc *scenario.Scenario
	if a.cfg.Simulation.Scenario != "" {
		sc, err = scenario.Load(a.cfg.Simulation.Scenario)
		if err != nil {
			return nil, nil, err
		}
		simCfg = sc.Configure(simCfg)
	}

	s, err := sim.New(simCfg, sim.WithLogger(a.logger.Named("sim")))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	if sc != nil {
		if err := sc.Apply(s); err != nil {
			return nil, nil, err
		}
		a.logger.Info("Scenario loaded",
			zap.String("name", sc.Name),
			zap.String("path", a.cfg.Simulation.Scenario),
			zap.Int("bodies", s.Len()),
		)
	}
	return s, sc, nil
}
