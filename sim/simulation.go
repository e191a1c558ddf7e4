package sim

import (
	"fmt"
	"image/color"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"gravitysim/physics"
)

// State is the run state of a Simulation.
type State int

const (
	// Running advances the bodies on every accepted tick
	Running State = iota

	// Paused leaves the bodies untouched; snapshots still work
	Paused
)

// String returns the state name.
func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// SpawnRequest describes a body to add to the simulation.
type SpawnRequest struct {
	Position physics.Vec2
	Velocity physics.Vec2
	Radius   float64
	Mass     float64
	Color    color.RGBA
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger used for tick diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCapacity preallocates room for n bodies.
func WithCapacity(n int) Option {
	return func(s *Simulation) {
		s.world = NewWorld(n)
	}
}

// Simulation is the step controller: it owns the bodies and advances them one tick
// at a time. All methods are safe for concurrent use; a tick holds the lock for its
// whole duration so no caller can observe or mutate a half-finished step.
type Simulation struct {
	mu sync.Mutex

	world   *World
	config  Config
	pending *Config
	state   State

	tick       uint64
	lastReport Report
	wasBound   bool

	logger *zap.Logger
}

// New creates a simulation with the given configuration.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		world:    NewWorld(64),
		config:   cfg,
		state:    Running,
		wasBound: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Spawn validates the request and appends a new body. It returns a copy; the
// live body stays owned by the simulation.
func (s *Simulation) Spawn(req SpawnRequest) (BodyView, error) {
	body, err := physics.NewBody(req.Position, req.Radius, req.Velocity, req.Mass, req.Color)
	if err != nil {
		return BodyView{}, fmt.Errorf("spawn rejected: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Register(body)
	s.logger.Debug("Body spawned",
		zap.Uint64("id", uint64(body.ID)),
		zap.Float64("mass", body.Mass),
		zap.Float64("radius", body.Radius),
	)
	return viewOf(body), nil
}

// Body returns a copy of the body with the given ID.
func (s *Simulation) Body(id physics.EntityID) (BodyView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.world.Find(id)
	if b == nil {
		return BodyView{}, false
	}
	return viewOf(b), true
}

// Remove deletes a body by ID and reports whether it existed.
func (s *Simulation) Remove(id physics.EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Unregister(id)
}

// Clear empties the active body set. Parameters and run state are kept.
func (s *Simulation) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Clear()
	s.lastReport = Report{Tick: s.tick}
	s.wasBound = true
}

// Reset clears all bodies, installs cfg immediately and resumes running.
func (s *Simulation) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Clear()
	s.config = cfg
	s.pending = nil
	s.state = Running
	s.tick = 0
	s.lastReport = Report{}
	s.wasBound = true
	return nil
}

// SetConfig stages new parameters; they take effect at the start of the next tick.
func (s *Simulation) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &cfg
	return nil
}

// Config returns the parameters the next tick will use.
func (s *Simulation) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return *s.pending
	}
	return s.config
}

// State returns the current run state.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pause suspends ticking.
func (s *Simulation) Pause() {
	s.setState(Paused)
}

// Resume continues ticking.
func (s *Simulation) Resume() {
	s.setState(Running)
}

// TogglePause flips between Running and Paused and returns the new state.
func (s *Simulation) TogglePause() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		s.state = Paused
	} else {
		s.state = Running
	}
	return s.state
}

func (s *Simulation) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Len returns the number of active bodies.
func (s *Simulation) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Len()
}

// LastReport returns the report of the most recent executed tick.
func (s *Simulation) LastReport() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Snapshot copies the current bodies and the last energy totals.
func (s *Simulation) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]BodyView, len(s.world.Bodies))
	for i, b := range s.world.Bodies {
		views[i] = viewOf(b)
	}
	return Frame{
		Tick:   s.tick,
		State:  s.state,
		Bodies: views,
		Energy: s.lastReport.Energy,
	}
}

// Step runs one tick for the given elapsed wall-clock time.
// It returns false without touching any body when the simulation is paused or when
// the scaled dt does not exceed the configured MinTickInterval. Dropped time is not
// carried over to the next call.
func (s *Simulation) Step(elapsed time.Duration) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyPending()
	if s.state == Paused {
		return s.lastReport, false
	}

	dt := elapsed.Seconds() * s.config.TimeScale
	if dt <= s.config.MinTickInterval {
		return s.lastReport, false
	}
	return s.advance(dt), true
}

// Advance runs one tick of exactly dt simulation seconds, bypassing the throttle.
// Paused simulations are left untouched, as is every body when dt is not a finite
// positive number.
func (s *Simulation) Advance(dt float64) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyPending()
	if s.state == Paused || !validTick(dt) {
		return s.lastReport, false
	}
	return s.advance(dt), true
}

// StepOnce runs one tick of dt simulation seconds regardless of the run state.
// Hosts use it to single-step a paused simulation. Like Advance it rejects a dt
// that is not finite and positive.
func (s *Simulation) StepOnce(dt float64) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyPending()
	if !validTick(dt) {
		return s.lastReport, false
	}
	return s.advance(dt), true
}

func validTick(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 1)
}

func (s *Simulation) applyPending() {
	if s.pending != nil {
		s.config = *s.pending
		s.pending = nil
	}
}

// advance executes the three tick phases. Callers hold s.mu.
func (s *Simulation) advance(dt float64) Report {
	s.tick++
	report := Report{Tick: s.tick, DT: dt}

	if s.config.GravityEnabled {
		if s.config.Workers > 1 {
			report.Energy.Potential = accumulateGravityParallel(s.world.Bodies, s.config)
		} else {
			report.Energy.Potential = accumulateGravity(s.world.Bodies, s.config)
		}
	}

	report.Energy.Kinetic = integrate(s.world.Bodies, dt)
	report.Collisions = s.resolveCollisions()
	report.Bodies = s.world.Len()

	s.observeEnergy(report)
	s.lastReport = report
	return report
}

// resolveCollisions scans every unordered pair once and applies the configured
// strategy. Merged bodies take slot i and keep being tested against later slots;
// slot j is only marked and dropped after the scan so no index shifts mid-loop.
func (s *Simulation) resolveCollisions() []CollisionEvent {
	bodies := s.world.Bodies
	strategy := s.config.Strategy()
	var events []CollisionEvent

	s.world.beginRemovals()
	for i := 0; i < len(bodies); i++ {
		if s.world.isRemoved(i) {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			if s.world.isRemoved(j) {
				continue
			}
			a, b := bodies[i], bodies[j]
			if !physics.IsColliding(a, b) {
				continue
			}

			switch strategy {
			case physics.StrategyMerge:
				merged := physics.Merge(a, b)
				bodies[i] = merged
				s.world.markRemoved(j)
				events = append(events, CollisionEvent{Strategy: strategy, A: a.ID, B: b.ID, Result: merged.ID})
				s.logger.Debug("Bodies merged",
					zap.Uint64("a", uint64(a.ID)),
					zap.Uint64("b", uint64(b.ID)),
					zap.Uint64("result", uint64(merged.ID)),
					zap.Float64("mass", merged.Mass),
				)
			case physics.StrategyBounce:
				physics.Bounce(a, b, s.config.Restitution)
				events = append(events, CollisionEvent{Strategy: strategy, A: a.ID, B: b.ID})
			}
		}
	}
	s.world.commitRemovals()
	return events
}

// observeEnergy logs transitions between bound and unbound states.
func (s *Simulation) observeEnergy(report Report) {
	if s.world.Len() < 2 {
		return
	}
	bound := report.Energy.Bound()
	if bound == s.wasBound {
		return
	}
	s.wasBound = bound
	s.logger.Debug("System boundness changed",
		zap.Uint64("tick", report.Tick),
		zap.Bool("bound", bound),
		zap.Float64("kinetic", report.Energy.Kinetic),
		zap.Float64("potential", report.Energy.Potential),
	)
}
