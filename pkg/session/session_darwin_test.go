//go:build darwin

package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyax/internal/logger"
	"github.com/zoeyai/zoeyax/pkg/config"
)

func TestFinderIsReachable(t *testing.T) {
	if os.Getenv("CI") != "" {
		t.Skip("CI 环境没有图形会话")
	}
	log := logger.New()
	log.SetConsole(false)
	s, err := Open(config.DefaultConfig(), log)
	require.NoError(t, err)
	defer s.Close()

	if !s.IsAccessibilityEnabled() {
		t.Skipf("未授权辅助功能，跳过")
	}

	finder, err := s.AppByBundleID("com.apple.finder")
	require.NoError(t, err)
	assert.Equal(t, "AXApplication", finder.Role())

	id, err := finder.BundleID()
	require.NoError(t, err)
	assert.Equal(t, "com.apple.finder", id)
}
