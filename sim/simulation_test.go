package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravitysim/physics"
)

// testConfig returns a config without throttling so Step behaves predictably.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinTickInterval = 0
	return cfg
}

func newTestSim(t *testing.T, cfg Config) *Simulation {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func spawn(t *testing.T, s *Simulation, pos, vel physics.Vec2, radius, mass float64) physics.EntityID {
	t.Helper()
	b, err := s.Spawn(SpawnRequest{Position: pos, Velocity: vel, Radius: radius, Mass: mass})
	require.NoError(t, err)
	return b.ID
}

// view reads a body's current state through the simulation.
func view(t *testing.T, s *Simulation, id physics.EntityID) BodyView {
	t.Helper()
	b, ok := s.Body(id)
	require.True(t, ok, "body %d not found", id)
	return b
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeScale = 0
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSpawnRejectsInvalidBodies(t *testing.T) {
	s := newTestSim(t, testConfig())

	_, err := s.Spawn(SpawnRequest{Radius: 1, Mass: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, physics.ErrInvalidBody))

	_, err = s.Spawn(SpawnRequest{Radius: -3, Mass: 1})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len(), "rejected bodies must never enter the active set")
}

func TestTwoBodyAttraction(t *testing.T) {
	s := newTestSim(t, testConfig())
	a := spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{}, 1, 1e24)
	b := spawn(t, s, physics.Vec2{X: 10}, physics.Vec2{}, 1, 1e24)

	const dt = 1e-3
	report, ok := s.Advance(dt)
	require.True(t, ok)

	force := DefaultGravitationalConstant * 1e24 * 1e24 / 100
	wantSpeed := force / 1e24 * dt

	// Each body gains speed toward the other.
	va, vb := view(t, s, a), view(t, s, b)
	assert.InEpsilon(t, wantSpeed, va.Velocity.X, 1e-9)
	assert.InEpsilon(t, -wantSpeed, vb.Velocity.X, 1e-9)
	assert.Equal(t, 0.0, va.Velocity.Y)
	assert.Equal(t, 0.0, vb.Velocity.Y)

	assert.InEpsilon(t, -DefaultGravitationalConstant*1e48/10, report.Energy.Potential, 1e-9)
	assert.InEpsilon(t, 2*0.5*1e24*wantSpeed*wantSpeed, report.Energy.Kinetic, 1e-9)
	assert.Equal(t, uint64(1), report.Tick)
}

func TestGravityDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.GravityEnabled = false
	s := newTestSim(t, cfg)

	a := spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{Y: 1}, 1, 1e30)
	b := spawn(t, s, physics.Vec2{X: 50}, physics.Vec2{}, 1, 1e30)

	report, ok := s.Advance(1)
	require.True(t, ok)

	assert.Equal(t, physics.Vec2{Y: 1}, view(t, s, a).Velocity)
	assert.Equal(t, physics.Vec2{}, view(t, s, b).Velocity)
	assert.Equal(t, 0.0, report.Energy.Potential)
}

func TestCollidingPairsDoNotAttract(t *testing.T) {
	cfg := testConfig()
	cfg.MergeEnabled = false
	s := newTestSim(t, cfg)

	a := spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{}, 2, 1e30)
	b := spawn(t, s, physics.Vec2{X: 3}, physics.Vec2{}, 2, 1e30)

	report, _ := s.Advance(1e-6)
	assert.Equal(t, 0.0, report.Energy.Potential)
	assert.Equal(t, physics.Vec2{}, view(t, s, a).Velocity)
	assert.Equal(t, physics.Vec2{}, view(t, s, b).Velocity)
}

func TestMergeScenario(t *testing.T) {
	s := newTestSim(t, testConfig())
	spawn(t, s, physics.Vec2{X: 100, Y: 100}, physics.Vec2{X: 1}, 5, 10)
	spawn(t, s, physics.Vec2{X: 100, Y: 100}, physics.Vec2{X: -1}, 5, 10)

	report, ok := s.Advance(1e-3)
	require.True(t, ok)

	require.Equal(t, 1, s.Len())
	require.Len(t, report.Collisions, 1)
	assert.Equal(t, 1, report.Merges())
	assert.Equal(t, 1, report.Bodies)

	frame := s.Snapshot()
	merged := frame.Bodies[0]
	assert.Equal(t, 20.0, merged.Mass)
	assert.InDelta(t, math.Sqrt(50), merged.Radius, 1e-12)
	assert.InDelta(t, 0.0, merged.Velocity.X, 1e-12)
	assert.InDelta(t, 0.0, merged.Velocity.Y, 1e-12)
	assert.InDelta(t, 100.0, merged.Position.X, 1e-9)
	assert.Equal(t, report.Collisions[0].Result, merged.ID)
}

func TestMergeChainResolvesEachPairOnce(t *testing.T) {
	s := newTestSim(t, testConfig())
	first := spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{}, 1, 1)
	spawn(t, s, physics.Vec2{X: 0.5}, physics.Vec2{}, 1, 2)
	spawn(t, s, physics.Vec2{X: 1}, physics.Vec2{}, 1, 3)
	far := spawn(t, s, physics.Vec2{X: 1e6}, physics.Vec2{}, 1, 4)

	report, _ := s.Advance(1e-9)

	// All three overlapping bodies collapse into slot 0; the far body keeps its slot.
	assert.Len(t, report.Collisions, 2)
	frame := s.Snapshot()
	require.Len(t, frame.Bodies, 2)
	assert.InDelta(t, 6.0, frame.Bodies[0].Mass, 1e-12)
	assert.NotEqual(t, first, frame.Bodies[0].ID)
	assert.Equal(t, far, frame.Bodies[1].ID)

	total := 0.0
	for _, b := range frame.Bodies {
		total += b.Mass
	}
	assert.InDelta(t, 10.0, total, 1e-12)
}

func TestBounceScenario(t *testing.T) {
	cfg := testConfig()
	cfg.MergeEnabled = false
	cfg.GravityEnabled = false
	s := newTestSim(t, cfg)

	a := spawn(t, s, physics.Vec2{X: -2}, physics.Vec2{X: 1}, 1, 5)
	b := spawn(t, s, physics.Vec2{X: 2}, physics.Vec2{X: -1}, 1, 5)

	// After 1.5s the centres are 1 apart and the circles overlap.
	report, ok := s.Advance(1.5)
	require.True(t, ok)

	require.Equal(t, 2, s.Len())
	require.Len(t, report.Collisions, 1)
	assert.Equal(t, physics.StrategyBounce, report.Collisions[0].Strategy)
	va, vb := view(t, s, a), view(t, s, b)
	assert.InDelta(t, -1.0, va.Velocity.X, 1e-12)
	assert.InDelta(t, 1.0, vb.Velocity.X, 1e-12)
	assert.InDelta(t, va.Radius+vb.Radius, physics.Distance(va.Position, vb.Position), 1e-12)
}

func TestStepThrottle(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSim(t, cfg)
	spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{X: 3}, 1, 1e20)
	spawn(t, s, physics.Vec2{X: 1e5}, physics.Vec2{}, 1, 1e20)

	before := s.Snapshot()

	// 1µs of wall time scales to 10 simulation seconds, below the 33.3s interval.
	_, ok := s.Step(time.Microsecond)
	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())

	report, ok := s.Step(10 * time.Millisecond)
	assert.True(t, ok)
	assert.InDelta(t, 0.01*DefaultTimeScale, report.DT, 1e-6)
	assert.NotEqual(t, before.Bodies[0].Position, s.Snapshot().Bodies[0].Position)
}

func TestPauseAndSingleStep(t *testing.T) {
	s := newTestSim(t, testConfig())
	b := spawn(t, s, physics.Vec2{}, physics.Vec2{X: 1}, 1, 1)

	s.Pause()
	assert.Equal(t, Paused, s.State())

	_, ok := s.Step(time.Second)
	assert.False(t, ok)
	_, ok = s.Advance(1)
	assert.False(t, ok)
	assert.Equal(t, physics.Vec2{}, view(t, s, b).Position)

	report, ok := s.StepOnce(2)
	require.True(t, ok)
	assert.Equal(t, uint64(1), report.Tick)
	assert.Equal(t, physics.Vec2{X: 2}, view(t, s, b).Position)
	assert.Equal(t, Paused, s.State())

	assert.Equal(t, Running, s.TogglePause())
	_, ok = s.Advance(1)
	assert.True(t, ok)
	assert.Equal(t, Paused, s.TogglePause())
}

func TestSetConfigAppliesOnNextTick(t *testing.T) {
	s := newTestSim(t, testConfig())
	a := spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{}, 1, 1e24)
	spawn(t, s, physics.Vec2{X: 10}, physics.Vec2{}, 1, 1e24)

	next := testConfig()
	next.GravityEnabled = false
	require.NoError(t, s.SetConfig(next))
	assert.False(t, s.Config().GravityEnabled)

	s.Advance(1e-3)
	assert.Equal(t, physics.Vec2{}, view(t, s, a).Velocity)

	bad := testConfig()
	bad.Restitution = 2
	assert.Error(t, s.SetConfig(bad))
	assert.False(t, s.Config().GravityEnabled)
}

func TestClearAndReset(t *testing.T) {
	s := newTestSim(t, testConfig())
	spawn(t, s, physics.Vec2{}, physics.Vec2{}, 1, 1)
	spawn(t, s, physics.Vec2{X: 5}, physics.Vec2{}, 1, 1)
	s.Advance(1)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(1), s.Snapshot().Tick)

	spawn(t, s, physics.Vec2{}, physics.Vec2{}, 1, 1)
	s.Pause()
	cfg := testConfig()
	cfg.MergeEnabled = false
	require.NoError(t, s.Reset(cfg))

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, Running, s.State())
	assert.Equal(t, uint64(0), s.Snapshot().Tick)
	assert.False(t, s.Config().MergeEnabled)
}

func TestRemove(t *testing.T) {
	s := newTestSim(t, testConfig())
	a := spawn(t, s, physics.Vec2{}, physics.Vec2{}, 1, 1)
	b := spawn(t, s, physics.Vec2{X: 5}, physics.Vec2{}, 1, 1)

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	_, ok := s.Body(a)
	assert.False(t, ok)
	frame := s.Snapshot()
	require.Len(t, frame.Bodies, 1)
	assert.Equal(t, b, frame.Bodies[0].ID)
}

func TestEnergyDiagnostics(t *testing.T) {
	t.Run("escaping pair is unbound", func(t *testing.T) {
		s := newTestSim(t, testConfig())
		spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{X: -1e6}, 1, 1)
		spawn(t, s, physics.Vec2{X: 1e3}, physics.Vec2{X: 1e6}, 1, 1)

		report, _ := s.Advance(1e-6)
		assert.True(t, report.Energy.Unbound())
		assert.False(t, report.Energy.Bound())
	})

	t.Run("resting heavy pair is bound", func(t *testing.T) {
		s := newTestSim(t, testConfig())
		spawn(t, s, physics.Vec2{X: 0}, physics.Vec2{}, 1, 1e24)
		spawn(t, s, physics.Vec2{X: 1e6}, physics.Vec2{}, 1, 1e24)

		report, _ := s.Advance(1e-6)
		assert.True(t, report.Energy.Bound())
		assert.InDelta(t, report.Energy.Kinetic+report.Energy.Potential, report.Energy.Total(), 1e-6)
	})
}

func TestSpawnReturnsDetachedCopy(t *testing.T) {
	s := newTestSim(t, testConfig())
	b, err := s.Spawn(SpawnRequest{Position: physics.Vec2{X: 1}, Velocity: physics.Vec2{X: 2}, Radius: 1, Mass: 3})
	require.NoError(t, err)

	b.Mass = 0
	b.Radius = 0
	report, ok := s.Advance(1)
	require.True(t, ok)

	got := view(t, s, b.ID)
	assert.Equal(t, 3.0, got.Mass)
	assert.Equal(t, 1.0, got.Radius)
	assert.Equal(t, 0.5*3*2*2, report.Energy.Kinetic)
}

func TestRejectsInvalidTickLength(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"not a number", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"negative", -1},
		{"zero", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, testConfig())
			id := spawn(t, s, physics.Vec2{X: 4}, physics.Vec2{X: 1}, 1, 1)
			spawn(t, s, physics.Vec2{X: 1e3}, physics.Vec2{}, 1, 1)
			before := s.Snapshot()

			report, ok := s.Advance(tt.dt)
			assert.False(t, ok)
			assert.Equal(t, uint64(0), report.Tick)

			s.Pause()
			_, ok = s.StepOnce(tt.dt)
			assert.False(t, ok)

			s.Resume()
			assert.Equal(t, before.Bodies, s.Snapshot().Bodies)
			assert.Equal(t, physics.Vec2{X: 4}, view(t, s, id).Position)
		})
	}
}
