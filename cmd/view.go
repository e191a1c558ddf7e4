package cmd

import (
	"github.com/spf13/cobra"

	"gravitysim/internal/config"
	"gravitysim/viewer"
)

func newViewCmd(a *app) *cobra.Command {
	defaults := config.NewDefaultConfig().Viewer
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Opens the interactive viewer",
		Long: `Opens a window showing the simulation.

Click and hold to size a new body, click again to launch it.
Space pause, N step, C clear, R reset, G gravity, M merge/bounce, T trails,
[ and ] time scale, arrows pan, = and - zoom, Esc cancel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, sc, err := a.buildSimulation()
			if err != nil {
				return err
			}
			v, err := viewer.New(cmd.Context(), s, a.cfg.Viewer, sc, a.logger)
			if err != nil {
				return err
			}
			return v.Run()
		},
	}

	f := viewCmd.Flags()
	f.Float64("scale", defaults.Scale, "world metres per screen pixel")
	f.Bool("trails", defaults.Trails, "draw body trails")
	f.Bool("profile", defaults.Profile.Enabled, "capture a CPU profile and trace on slow frames")
	return viewCmd
}
