package ax_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

func TestCheckErrorSuccess(t *testing.T) {
	assert.NoError(t, ax.CheckError(ax.CodeSuccess, "不会出现"))
}

func TestCheckErrorKinds(t *testing.T) {
	tests := []struct {
		code     ax.Code
		kind     ax.Kind
		sentinel error
	}{
		{ax.CodeAPIDisabled, ax.KindAPIDisabled, ax.ErrAPIDisabled},
		{ax.CodeInvalidUIElement, ax.KindInvalidElement, ax.ErrInvalidElement},
		{ax.CodeCannotComplete, ax.KindCannotComplete, ax.ErrCannotComplete},
		{ax.CodeNotImplemented, ax.KindNotImplemented, ax.ErrNotImplemented},
		{ax.CodeIllegalArgument, ax.KindIllegalArgument, ax.ErrIllegalArgument},
		{ax.CodeNoValue, ax.KindNoValue, ax.ErrNoValue},
		{ax.CodeActionUnsupported, ax.KindActionUnsupported, ax.ErrActionUnsupported},
		{ax.CodeFailure, ax.KindFailure, ax.ErrFailure},
		{ax.CodeAttributeUnsupported, ax.KindUnsupported, ax.ErrUnsupported},
		{ax.CodeNotificationUnsupported, ax.KindUnsupported, ax.ErrUnsupported},
		{ax.Code(-1), ax.KindUnsupported, ax.ErrUnsupported},
		{ax.Code(12345), ax.KindUnsupported, ax.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %d", tt.code), func(t *testing.T) {
			err := ax.CheckError(tt.code, "操作失败")
			require.Error(t, err)

			assert.True(t, ax.IsKind(err, tt.kind), "kind = %v", err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, ax.ErrAccessibility)
			assert.Contains(t, err.Error(), "操作失败")
			assert.Contains(t, err.Error(), fmt.Sprintf("(AX Error %d)", tt.code))
		})
	}
}

func TestErrorKindsDoNotCrossMatch(t *testing.T) {
	err := ax.CheckError(ax.CodeCannotComplete, "x")
	assert.NotErrorIs(t, err, ax.ErrAPIDisabled)
	assert.NotErrorIs(t, err, ax.ErrNotFound)
}

func TestKindOfIsTotal(t *testing.T) {
	for code := ax.Code(-25220); code <= 0; code++ {
		kind := ax.KindOf(code)
		assert.NotEqual(t, "", kind.String())
	}
	assert.Equal(t, ax.KindUnsupported, ax.KindOf(ax.CodeSuccess))
}

func TestErrorWrapping(t *testing.T) {
	err := fmt.Errorf("外层: %w", ax.CheckError(ax.CodeAPIDisabled, "无障碍未开启"))

	var axErr *ax.Error
	require.True(t, errors.As(err, &axErr))
	assert.Equal(t, ax.CodeAPIDisabled, axErr.Code)
	assert.Equal(t, ax.KindAPIDisabled, axErr.Kind)
	assert.True(t, ax.IsKind(err, ax.KindAPIDisabled))
	assert.False(t, ax.IsKind(errors.New("plain"), ax.KindAPIDisabled))
}
