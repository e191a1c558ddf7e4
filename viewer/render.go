package viewer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gravitysim/control"
	"gravitysim/sim"
)

var (
	backgroundColor = color.RGBA{R: 8, G: 8, B: 16, A: 255}
	hudColor        = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	warnColor       = color.RGBA{R: 255, G: 120, B: 120, A: 255}
	pendingColor    = color.RGBA{R: 255, G: 255, B: 200, A: 200}
)

// minBodyPixels keeps distant bodies visible.
const minBodyPixels = 1.5

const hudLineHeight = 16

// Draw renders the current frame
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	frame := v.sim.Snapshot()

	if v.showTrails {
		v.drawTrails(screen, frame)
	}
	for _, b := range frame.Bodies {
		v.drawBody(screen, b)
	}
	v.drawPending(screen)
	v.drawHUD(screen, frame)
}

// drawBody renders a single body
func (v *Viewer) drawBody(screen *ebiten.Image, b sim.BodyView) {
	sx, sy := v.camera.WorldToScreen(b.Position)
	r := math.Max(v.camera.ScreenLength(b.Radius), minBodyPixels)

	// Skip bodies entirely off screen
	if sx+r < 0 || sy+r < 0 || sx-r > v.camera.Width || sy-r > v.camera.Height {
		return
	}
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(r), b.Color, true)
}

// drawTrails draws each body's history, fading toward the oldest point.
func (v *Viewer) drawTrails(screen *ebiten.Image, frame sim.Frame) {
	for _, b := range frame.Bodies {
		path := v.trails.Path(b.ID)
		for i := 1; i < len(path); i++ {
			x0, y0 := v.camera.WorldToScreen(path[i-1])
			x1, y1 := v.camera.WorldToScreen(path[i])
			clr := b.Color
			clr.A = uint8(255 * i / len(path))
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, premultiply(clr), true)
		}
	}
}

// drawPending outlines a placed body and the launch vector to the cursor.
func (v *Viewer) drawPending(screen *ebiten.Image) {
	req, ok := v.gesture.Pending()
	if !ok {
		return
	}
	sx, sy := v.camera.WorldToScreen(req.Position)
	r := math.Max(v.camera.ScreenLength(req.Radius), minBodyPixels)
	vector.StrokeCircle(screen, float32(sx), float32(sy), float32(r), 1, pendingColor, true)

	mx, my := ebiten.CursorPosition()
	vector.StrokeLine(screen, float32(sx), float32(sy), float32(mx), float32(my), 1, pendingColor, true)
}

func (v *Viewer) drawHUD(screen *ebiten.Image, frame sim.Frame) {
	_, pending := v.gesture.Pending()
	lines := control.HUDLines(frame, control.HUDState{
		Config:  v.sim.Config(),
		FPS:     v.fps,
		Trails:  v.showTrails,
		Pending: pending,
	})

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(10, float64(10+i*hudLineHeight))
		if line == "UNBOUND" {
			op.ColorScale.ScaleWithColor(warnColor)
		} else {
			op.ColorScale.ScaleWithColor(hudColor)
		}
		text.Draw(screen, line, v.face, op)
	}
}

// premultiply converts a straight-alpha colour into ebiten's premultiplied form.
func premultiply(c color.RGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}
