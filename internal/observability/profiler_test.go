package observability

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gravitysim/internal/config"
)

func TestProfilerCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	p, err := NewProfiler(config.ProfileConfig{
		Dir:      dir,
		Duration: 20 * time.Millisecond,
		Cooldown: time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.CaptureProfile("fps5-bodies10"))
	assert.True(t, errors.Is(p.CaptureProfile("again"), ErrProfileBusy))

	p.Wait()
	assert.False(t, p.IsProfiling())
	assert.True(t, errors.Is(p.CaptureProfile("again"), ErrProfileCooldown))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".prof", ".trace"}, names)
}

func TestNewProfilerFailsOnBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewProfiler(config.ProfileConfig{Dir: filepath.Join(file, "sub")}, nil)
	assert.Error(t, err)
}
