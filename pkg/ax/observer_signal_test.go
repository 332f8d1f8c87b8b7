//go:build !windows

package ax_test

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

func TestWaitInterruptedBySIGINT(t *testing.T) {
	f := newFixture(t, ax.WithInterruptHandling(true))

	postAfterAttach(t, f, func() {
		assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	})

	start := time.Now()
	el, err := f.appElement().WaitForCreation(context.Background(), 5*time.Second, nil)
	assert.Nil(t, el)
	assert.ErrorIs(t, err, ax.ErrInterrupted)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, 1, f.native.Removed(), "SIGINT 时通知注册也被移除")
	assert.Equal(t, 1, f.native.Released())
}
