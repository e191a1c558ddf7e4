package control

import (
	"fmt"

	"gravitysim/sim"
)

// HUDState is everything the heads-up display shows besides the frame itself.
type HUDState struct {
	Config  sim.Config
	FPS     float64
	Trails  bool
	Pending bool
}

// HUDLines formats the heads-up display, one entry per line.
func HUDLines(frame sim.Frame, st HUDState) []string {
	lines := []string{
		fmt.Sprintf("Bodies: %d  Tick: %d  [%s]", len(frame.Bodies), frame.Tick, frame.State),
		fmt.Sprintf("KE: %.3e  PE: %.3e  Total: %.3e", frame.Energy.Kinetic, frame.Energy.Potential, frame.Energy.Total()),
		fmt.Sprintf("Gravity: %s  Collisions: %s  Trails: %s",
			onOff(st.Config.GravityEnabled), st.Config.Strategy(), onOff(st.Trails)),
		fmt.Sprintf("Time scale: %.3g  FPS: %.0f", st.Config.TimeScale, st.FPS),
	}
	if len(frame.Bodies) >= 2 && frame.Energy.Unbound() {
		lines = append(lines, "UNBOUND")
	}
	if st.Pending {
		lines = append(lines, "Click to launch, Esc to cancel")
	}
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
