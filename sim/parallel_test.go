package sim

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gravitysim/physics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scatter builds n non-overlapping bodies on a jittered grid.
func scatter(t *testing.T, n int, seed int64) []*physics.Body {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]*physics.Body, n)
	for i := range bodies {
		pos := physics.Vec2{
			X: float64(i%10)*1e7 + rng.Float64()*1e6,
			Y: float64(i/10)*1e7 + rng.Float64()*1e6,
		}
		vel := physics.Vec2{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
		b, err := physics.NewBody(pos, 1e5, vel, 1e20+rng.Float64()*1e22, physics.DefaultColor)
		require.NoError(t, err)
		bodies[i] = b
	}
	return bodies
}

func cloneBodies(bodies []*physics.Body) []*physics.Body {
	out := make([]*physics.Body, len(bodies))
	for i, b := range bodies {
		c := *b
		out[i] = &c
	}
	return out
}

func TestParallelGravityMatchesSequential(t *testing.T) {
	bodies := scatter(t, 57, 7)
	seq := cloneBodies(bodies)
	par := cloneBodies(bodies)

	cfg := DefaultConfig()
	cfg.Workers = 4

	wantPotential := accumulateGravity(seq, cfg)
	gotPotential := accumulateGravityParallel(par, cfg)

	assert.InEpsilon(t, wantPotential, gotPotential, 1e-9)

	approx := cmpopts.EquateApprox(1e-9, 1e-18)
	for i := range seq {
		if diff := cmp.Diff(seq[i].Acceleration, par[i].Acceleration, approx); diff != "" {
			t.Errorf("body %d acceleration mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParallelFallsBackForSmallSets(t *testing.T) {
	bodies := scatter(t, 2, 3)
	cfg := DefaultConfig()
	cfg.Workers = 8

	seq := cloneBodies(bodies)
	want := accumulateGravity(seq, cfg)
	got := accumulateGravityParallel(bodies, cfg)
	assert.Equal(t, want, got)
	assert.Equal(t, seq[0].Acceleration, bodies[0].Acceleration)
}

func TestSimulationWithWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 3
	s := newTestSim(t, cfg)
	for _, b := range scatter(t, 20, 11) {
		_, err := s.Spawn(SpawnRequest{Position: b.Position, Velocity: b.Velocity, Radius: b.Radius, Mass: b.Mass})
		require.NoError(t, err)
	}

	for range 5 {
		_, ok := s.Advance(10)
		require.True(t, ok)
	}
	assert.Equal(t, uint64(5), s.LastReport().Tick)
	assert.Less(t, s.LastReport().Energy.Potential, 0.0)
}
