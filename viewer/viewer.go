// Package viewer is the interactive ebiten front end for a simulation.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"gravitysim/control"
	"gravitysim/internal/config"
	"gravitysim/internal/observability"
	"gravitysim/scenario"
	"gravitysim/sim"
)

// fpsWindow is how often the FPS estimate is refreshed, in seconds.
const fpsWindow = 0.5

// profileGrace ignores slow frames right after startup.
const profileGrace = 3 * time.Second

// Viewer implements ebiten.Game on top of a sim.Simulation.
type Viewer struct {
	ctx    context.Context
	sim    *sim.Simulation
	config config.ViewerConfig

	// baseConfig and scenario are reinstalled by a reset
	baseConfig sim.Config
	scenario   *scenario.Scenario

	camera  *control.Camera
	gesture *control.SpawnGesture
	trails  *control.Trails

	showTrails bool
	face       text.Face

	// FPS tracking
	fps              float64
	fpsUpdateCounter int
	fpsUpdateTimer   float64

	// Performance profiling, nil when disabled
	profiler      *observability.Profiler
	viewStartTime time.Time

	// Last update time for delta time calculation
	lastUpdateTime time.Time

	logger *zap.Logger
}

// New creates a viewer for s. sc may be nil; when set, a reset reloads it.
func New(ctx context.Context, s *sim.Simulation, cfg config.ViewerConfig, sc *scenario.Scenario, logger *zap.Logger) (*Viewer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Viewer{
		ctx:            ctx,
		sim:            s,
		config:         cfg,
		baseConfig:     s.Config(),
		scenario:       sc,
		camera:         control.NewCamera(float64(cfg.ScreenWidth), float64(cfg.ScreenHeight), cfg.Scale),
		gesture:        control.NewSpawnGesture(cfg.Scale, rand.New(rand.NewSource(time.Now().UnixNano()))),
		trails:         control.NewTrails(cfg.TrailLength),
		showTrails:     cfg.Trails,
		face:           text.NewGoXFace(basicfont.Face7x13),
		fps:            60.0,
		viewStartTime:  time.Now(),
		lastUpdateTime: time.Now(),
		logger:         logger.Named("viewer"),
	}

	if cfg.Profile.Enabled {
		p, err := observability.NewProfiler(cfg.Profile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up profiler: %w", err)
		}
		v.profiler = p
	}
	return v, nil
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func (v *Viewer) Run() error {
	ebiten.SetWindowSize(v.config.ScreenWidth, v.config.ScreenHeight)
	ebiten.SetWindowTitle(v.config.Title)
	ebiten.SetWindowResizable(true)

	err := ebiten.RunGame(v)
	if v.profiler != nil {
		v.profiler.Wait()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update handles input and advances the simulation by the elapsed wall time.
func (v *Viewer) Update() error {
	select {
	case <-v.ctx.Done():
		return ebiten.Termination
	default:
	}

	now := time.Now()
	elapsed := now.Sub(v.lastUpdateTime)
	v.lastUpdateTime = now
	v.trackFPS(elapsed.Seconds())

	v.handleKeys()
	v.handleMouse(now)

	if _, ok := v.sim.Step(elapsed); ok && v.showTrails {
		v.trails.Record(v.sim.Snapshot())
	}
	return nil
}

// Layout follows the window size so resizing shows more of the world.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.camera.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// trackFPS updates the FPS estimate and triggers a profile on sustained slow frames.
func (v *Viewer) trackFPS(deltaTime float64) {
	v.fpsUpdateTimer += deltaTime
	v.fpsUpdateCounter++
	if v.fpsUpdateTimer < fpsWindow {
		return
	}
	v.fps = float64(v.fpsUpdateCounter) / v.fpsUpdateTimer
	v.fpsUpdateCounter = 0
	v.fpsUpdateTimer = 0

	if v.profiler == nil || v.fps >= v.config.Profile.MinFPS || time.Since(v.viewStartTime) < profileGrace {
		return
	}
	reason := fmt.Sprintf("fps%.0f-bodies%d", v.fps, v.sim.Len())
	if err := v.profiler.CaptureProfile(reason); err != nil {
		v.logger.Debug("Profile capture skipped", zap.Error(err))
		return
	}
	v.logger.Warn("Slow frames detected, capturing profile", zap.Float64("fps", v.fps), zap.Int("bodies", v.sim.Len()))
}

// reset restores the starting configuration and scenario.
func (v *Viewer) reset() {
	if err := v.sim.Reset(v.baseConfig); err != nil {
		v.logger.Error("Reset failed", zap.Error(err))
		return
	}
	if v.scenario != nil {
		if err := v.scenario.Apply(v.sim); err != nil {
			v.logger.Error("Scenario reload failed", zap.Error(err))
		}
	}
	v.camera.Reset()
	v.gesture.Cancel()
	v.trails.Clear()
	v.logger.Info("Simulation reset", zap.Int("bodies", v.sim.Len()))
}
