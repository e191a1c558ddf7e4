package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gravitysim/internal/config"
	"gravitysim/internal/runner"
)

func newRunCmd(a *app) *cobra.Command {
	defaults := config.NewDefaultConfig().Run
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the simulation headless and prints the final bodies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.buildSimulation()
			if err != nil {
				return err
			}

			r := runner.New(s, a.cfg.Run, a.logger)
			summary, runErr := r.Run(cmd.Context())
			if err := runner.WriteTable(cmd.OutOrStdout(), summary); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
			if errors.Is(runErr, context.Canceled) {
				a.logger.Warn("Run aborted gracefully", zap.String("run_id", summary.RunID))
				return fmt.Errorf("run aborted by user signal")
			}
			return runErr
		},
	}

	f := runCmd.Flags()
	f.Int("ticks", defaults.Ticks, "number of frames to feed the simulation")
	f.Duration("frame", defaults.Frame, "wall-clock duration of one frame")
	f.Bool("realtime", defaults.Realtime, "pace frames to the wall clock")
	f.Int("report-every", defaults.ReportEvery, "log energy every N executed ticks (0 disables)")
	return runCmd
}
