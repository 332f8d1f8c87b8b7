package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	trusted bool
	prompts int
}

func (f *fakeChecker) IsAccessibilityEnabled() bool { return f.trusted }

func (f *fakeChecker) RequestAccessibility() bool {
	f.prompts++
	return f.trusted
}

func TestCheck(t *testing.T) {
	c := &fakeChecker{}

	status := Check(c, false)
	assert.False(t, status.Accessibility)
	assert.False(t, status.Prompted)
	assert.Zero(t, c.prompts)

	status = Check(c, true)
	assert.True(t, status.Prompted)
	assert.Equal(t, 1, c.prompts)

	c.trusted = true
	assert.True(t, Check(c, false).Accessibility)
}

func TestInstructions(t *testing.T) {
	assert.Empty(t, Instructions(&Status{Accessibility: true}))

	msg := Instructions(&Status{})
	assert.Contains(t, msg, "辅助功能")
	assert.NotContains(t, msg, "已弹出")

	assert.Contains(t, Instructions(&Status{Prompted: true}), "已弹出")
}

func TestResetAccessibilityRequiresBundleID(t *testing.T) {
	assert.Error(t, ResetAccessibility(""))
}
