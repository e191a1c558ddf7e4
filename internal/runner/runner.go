// Package runner drives a simulation without a display.
package runner

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gravitysim/internal/config"
	"gravitysim/sim"
)

// Summary describes a finished (or interrupted) run.
type Summary struct {
	RunID      string
	Executed   int
	Dropped    int
	Collisions int
	Merges     int
	Elapsed    time.Duration
	Final      sim.Frame
}

// Runner feeds a simulation fixed wall-clock frames.
type Runner struct {
	sim     *sim.Simulation
	opts    config.RunConfig
	limiter *rate.Limiter
	logger  *zap.Logger
	runID   string
}

// New creates a runner. In realtime mode frames are paced to opts.Frame.
func New(s *sim.Simulation, opts config.RunConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		sim:    s,
		opts:   opts,
		logger: logger.Named("runner"),
		runID:  uuid.New().String(),
	}
	if opts.Realtime {
		r.limiter = rate.NewLimiter(rate.Every(opts.Frame), 1)
	}
	return r
}

// RunID returns the identifier attached to this run's log lines.
func (r *Runner) RunID() string {
	return r.runID
}

// Run steps the simulation opts.Ticks times. On cancellation it returns the
// summary so far together with the context error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: r.runID}
	r.logger.Info("Run started",
		zap.String("run_id", r.runID),
		zap.Int("ticks", r.opts.Ticks),
		zap.Duration("frame", r.opts.Frame),
		zap.Bool("realtime", r.opts.Realtime),
		zap.Int("bodies", r.sim.Len()),
	)

	finish := func(err error) (Summary, error) {
		summary.Elapsed = time.Since(start)
		summary.Final = r.sim.Snapshot()
		return summary, err
	}

	for i := 0; i < r.opts.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Run interrupted", zap.String("run_id", r.runID), zap.Int("executed", summary.Executed))
			return finish(err)
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return finish(fmt.Errorf("frame pacing: %w", err))
			}
		}

		report, ok := r.sim.Step(r.opts.Frame)
		if !ok {
			summary.Dropped++
			continue
		}
		summary.Executed++
		summary.Collisions += len(report.Collisions)
		summary.Merges += report.Merges()

		if r.opts.ReportEvery > 0 && summary.Executed%r.opts.ReportEvery == 0 {
			r.logEnergy(report)
		}
	}

	summary, err := finish(nil)
	r.logger.Info("Run finished",
		zap.String("run_id", r.runID),
		zap.Int("executed", summary.Executed),
		zap.Int("dropped", summary.Dropped),
		zap.Int("merges", summary.Merges),
		zap.Int("bodies", len(summary.Final.Bodies)),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, err
}

func (r *Runner) logEnergy(report sim.Report) {
	r.logger.Info("Energy",
		zap.String("run_id", r.runID),
		zap.Uint64("tick", report.Tick),
		zap.Int("bodies", report.Bodies),
		zap.Float64("kinetic", report.Energy.Kinetic),
		zap.Float64("potential", report.Energy.Potential),
		zap.Float64("total", report.Energy.Total()),
		zap.Bool("bound", report.Energy.Bound()),
	)
}

// WriteTable prints one row per body of the summary's final frame.
func WriteTable(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run %s: %d ticks executed, %d dropped, %d collisions (%d merges)\n",
		s.RunID, s.Executed, s.Dropped, s.Collisions, s.Merges)
	fmt.Fprintln(tw, "ID\tX\tY\tVX\tVY\tRADIUS\tMASS")
	for _, b := range s.Final.Bodies {
		fmt.Fprintf(tw, "%d\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\n",
			b.ID, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y, b.Radius, b.Mass)
	}
	e := s.Final.Energy
	fmt.Fprintf(tw, "Energy: kinetic %.4e, potential %.4e, total %.4e\n", e.Kinetic, e.Potential, e.Total())
	return tw.Flush()
}
