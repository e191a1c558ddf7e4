package observability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gravitysim/internal/config"
)

var (
	// ErrProfileCooldown is returned when a capture is requested too soon after the last one.
	ErrProfileCooldown = errors.New("profile capture on cooldown")
	// ErrProfileBusy is returned while a capture is still running.
	ErrProfileBusy = errors.New("already profiling")
)

// Profiler captures a CPU profile and an execution trace when the host reports
// a performance problem, at most once per cooldown.
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	captureDuration time.Duration
	profilesDir     string

	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewProfiler creates a profiler writing into cfg.Dir.
func NewProfiler(cfg config.ProfileConfig, logger *zap.Logger) (*Profiler, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profiles dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{
		captureCooldown: cfg.Cooldown,
		captureDuration: cfg.Duration,
		profilesDir:     cfg.Dir,
		logger:          logger.Named("profiler"),
	}, nil
}

// CaptureProfile starts a background capture labelled with reason.
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isProfiling {
		return ErrProfileBusy
	}
	if !p.lastCaptureTime.IsZero() && time.Since(p.lastCaptureTime) < p.captureCooldown {
		return fmt.Errorf("%w (last capture was %v ago)", ErrProfileCooldown, time.Since(p.lastCaptureTime).Round(time.Millisecond))
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()
	baseName := fmt.Sprintf("slow-%s-%s", p.lastCaptureTime.Format("20060102-150405"), reason)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()

		var g errgroup.Group
		g.Go(func() error { return p.captureCPUProfile(baseName) })
		g.Go(func() error { return p.captureTrace(baseName) })
		if err := g.Wait(); err != nil {
			p.logger.Warn("Profile capture failed", zap.String("name", baseName), zap.Error(err))
			return
		}
		p.logSummary(baseName)
	}()
	return nil
}

// Wait blocks until any running capture has finished.
func (p *Profiler) Wait() {
	p.wg.Wait()
}

// IsProfiling returns whether a profile capture is currently in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

func (p *Profiler) captureCPUProfile(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".trace")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	time.Sleep(p.captureDuration)
	trace.Stop()
	return nil
}

// logSummary logs where the capture went and the memory stats at the end of it.
func (p *Profiler) logSummary(baseName string) {
	profilePath := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	info, err := os.Stat(profilePath)
	if err != nil {
		p.logger.Warn("Could not stat profile", zap.Error(err))
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.logger.Info("Profile captured",
		zap.String("cpu_profile", profilePath),
		zap.String("trace", filepath.Join(p.profilesDir, baseName+".trace")),
		zap.Int64("size_bytes", info.Size()),
		zap.Uint64("alloc_kb", m.Alloc/1024),
		zap.Uint64("sys_kb", m.Sys/1024),
		zap.Uint32("num_gc", m.NumGC),
		zap.Uint64("heap_objects", m.HeapObjects),
		zap.String("hint", "go tool pprof -http=:8080 "+profilePath),
	)
}
