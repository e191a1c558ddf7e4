package viewer

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"gravitysim/sim"
)

// panStep is how far one arrow key press moves the view, in screen pixels.
const panStep = 10.0

// nominalFrame is the wall time a single step (N) advances by.
const nominalFrame = time.Second / 60

func (v *Viewer) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		state := v.sim.TogglePause()
		v.logger.Debug("Run state changed", zap.Stringer("state", state))
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if v.sim.State() == sim.Paused {
			_, stepped := v.sim.StepOnce(nominalFrame.Seconds() * v.sim.Config().TimeScale)
			if stepped && v.showTrails {
				v.trails.Record(v.sim.Snapshot())
			}
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.sim.Clear()
		v.gesture.Cancel()
		v.trails.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		v.updateConfig(func(c *sim.Config) { c.GravityEnabled = !c.GravityEnabled })
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		v.updateConfig(func(c *sim.Config) { c.MergeEnabled = !c.MergeEnabled })
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		v.showTrails = !v.showTrails
		v.trails.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		v.updateConfig(func(c *sim.Config) { c.TimeScale /= 2 })
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		v.updateConfig(func(c *sim.Config) { c.TimeScale *= 2 })
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		v.camera.ZoomIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		v.camera.ZoomOut()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		v.gesture.Cancel()
	}

	// Panning repeats while the key is held.
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.camera.Pan(-panStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.camera.Pan(panStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.camera.Pan(0, -panStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.camera.Pan(0, panStep)
	}
}

func (v *Viewer) handleMouse(now time.Time) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.gesture.Press(now)
	}
	if !inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		return
	}

	mx, my := ebiten.CursorPosition()
	req, launched := v.gesture.Release(v.camera.ScreenToWorld(float64(mx), float64(my)), now)
	if !launched {
		return
	}
	if _, err := v.sim.Spawn(req); err != nil {
		v.logger.Warn("Spawn rejected", zap.Error(err))
	}
}

// updateConfig stages a modified copy of the current parameters.
func (v *Viewer) updateConfig(mutate func(*sim.Config)) {
	cfg := v.sim.Config()
	mutate(&cfg)
	if err := v.sim.SetConfig(cfg); err != nil {
		v.logger.Warn("Config change rejected", zap.Error(err))
		return
	}
	v.logger.Debug("Config updated",
		zap.Bool("gravity", cfg.GravityEnabled),
		zap.Stringer("collisions", cfg.Strategy()),
		zap.Float64("time_scale", cfg.TimeScale),
	)
}
