package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zoeyai/zoeyax/internal/logger"
	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/config"
)

func TestOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AX.WaitTimeout = 3 * time.Second
	cfg.AX.PopUpDelay = 0
	cfg.Input.Interval = 10 * time.Millisecond
	cfg.Input.DragInterval = 50 * time.Millisecond

	o := ax.ApplyOptions(Options(cfg, zap.NewNop())...)
	assert.Equal(t, 3*time.Second, o.WaitTimeout)
	assert.Zero(t, o.PopUpDelay)
	assert.Equal(t, 10*time.Millisecond, o.InputInterval)
	assert.Equal(t, 50*time.Millisecond, o.DragInterval)
}

func TestOptionsKeepsDefaultWaitTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AX.WaitTimeout = 0

	o := ax.ApplyOptions(Options(cfg, nil)...)
	assert.Equal(t, ax.DefaultWaitTimeout, o.WaitTimeout)
	assert.NotNil(t, o.Logger)
}

func TestOpenWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	cfg := config.DefaultConfig()
	cfg.Log.Level = "debug"
	cfg.Log.File = path

	log := logger.New()
	log.SetConsole(false)

	s, err := Open(cfg, log)
	require.NoError(t, err)
	require.NotNil(t, s.System)
	require.NotNil(t, s.Processes)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "会话已创建")
}
