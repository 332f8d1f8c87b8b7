//go:build !darwin

package native

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

func TestUnsupportedPlatform(t *testing.T) {
	sys := ax.New(New(nil), nil, nil)

	assert.False(t, sys.IsAccessibilityEnabled())

	app := sys.AppByPID(1)
	assert.True(t, app.IsNull())

	_, err := app.PID()
	assert.True(t, errors.Is(err, ax.ErrNotImplemented))

	_, err = sys.ElementAtPosition(ax.Point{X: 1, Y: 1})
	assert.ErrorIs(t, err, ax.ErrNotImplemented)
}
