package ax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/ax/mock"
)

func keyEvent(kind ax.EventKind, key string, pid int) ax.Event {
	return ax.Event{Kind: kind, Key: key, PID: pid}
}

func TestSendKey(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.el(f.field).Input().SendKey("a"))
	assert.Equal(t, []ax.Event{
		keyEvent(ax.EventKeyDown, "a", testPID),
		keyEvent(ax.EventKeyUp, "a", testPID),
	}, f.inj.Events())
}

func TestSendKeyShiftRewrite(t *testing.T) {
	tests := []struct {
		key  string
		base string
	}{
		{"A", "a"},
		{"!", "1"},
		{"?", "/"},
		{"\"", "'"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.el(f.field).Input().SendKey(tt.key))
			assert.Equal(t, []ax.Event{
				keyEvent(ax.EventKeyDown, ax.ModShift, testPID),
				keyEvent(ax.EventKeyDown, tt.base, testPID),
				keyEvent(ax.EventKeyUp, tt.base, testPID),
				keyEvent(ax.EventKeyUp, ax.ModShift, testPID),
			}, f.inj.Events())
		})
	}
}

func TestSendKeyWithModifiersReleasesInReverse(t *testing.T) {
	f := newFixture(t)

	err := f.el(f.field).Input().SendKeyWithModifiers("s", []string{"command", "Shift", "option"})
	require.NoError(t, err)
	assert.Equal(t, []ax.Event{
		keyEvent(ax.EventKeyDown, ax.ModCommand, testPID),
		keyEvent(ax.EventKeyDown, ax.ModShift, testPID),
		keyEvent(ax.EventKeyDown, ax.ModOption, testPID),
		keyEvent(ax.EventKeyDown, "s", testPID),
		keyEvent(ax.EventKeyUp, "s", testPID),
		keyEvent(ax.EventKeyUp, ax.ModOption, testPID),
		keyEvent(ax.EventKeyUp, ax.ModShift, testPID),
		keyEvent(ax.EventKeyUp, ax.ModCommand, testPID),
	}, f.inj.Events())
}

func TestSendKeyUppercaseWithShiftAlreadyHeld(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.el(f.field).Input().SendKeyWithModifiers("Z", []string{"shift"}))
	events := f.inj.Events()
	require.Len(t, events, 4, "shift 不重复按下")
	assert.Equal(t, ax.ModShift, events[0].Key)
}

func TestSendGlobalKey(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.el(f.field).Input().SendGlobalKeyWithModifiers("tab", []string{"cmd"}))
	for _, ev := range f.inj.Events() {
		assert.Zero(t, ev.PID)
	}
	assert.Equal(t, "tab", f.inj.Events()[1].Key)
}

func TestSendKeyUnknown(t *testing.T) {
	f := newFixture(t)
	in := f.el(f.field).Input()

	err := in.SendKey("é")
	assert.ErrorIs(t, err, ax.ErrUnknownKey)
	assert.ErrorIs(t, err, ax.ErrIllegalArgument)
	assert.Empty(t, f.inj.Events())
	assert.Empty(t, in.Pending())

	err = in.SendKeyWithModifiers("a", []string{"hyper"})
	assert.ErrorIs(t, err, ax.ErrUnknownKey)
	assert.Empty(t, f.inj.Events())
}

func TestSendKeysAllOrNothing(t *testing.T) {
	f := newFixture(t)
	in := f.el(f.field).Input()

	require.NoError(t, in.SendKeys("Hi!"))
	var typed []string
	for _, ev := range f.inj.Events() {
		if ev.Kind == ax.EventKeyDown && ev.Key != ax.ModShift {
			typed = append(typed, ev.Key)
		}
	}
	assert.Equal(t, []string{"h", "i", "1"}, typed)

	f.inj.Reset()
	err := in.SendKeys("ok€")
	assert.ErrorIs(t, err, ax.ErrUnknownKey)
	assert.Empty(t, f.inj.Events(), "有未知字符时不发送任何按键")
	assert.Empty(t, in.Pending())
}

func TestPressAndReleaseModifiers(t *testing.T) {
	f := newFixture(t)
	in := f.el(f.field).Input()

	require.NoError(t, in.PressModifiers([]string{"ctrl", "alt"}))
	require.NoError(t, in.ReleaseModifiers([]string{"ctrl", "alt"}))
	assert.Equal(t, []ax.Event{
		keyEvent(ax.EventKeyDown, ax.ModControl, testPID),
		keyEvent(ax.EventKeyDown, ax.ModOption, testPID),
		keyEvent(ax.EventKeyUp, ax.ModOption, testPID),
		keyEvent(ax.EventKeyUp, ax.ModControl, testPID),
	}, f.inj.Events())
}

func TestSystemWideKeysGoGlobal(t *testing.T) {
	f := newFixture(t)
	f.native.System().Fail(mock.OpPID, "", ax.CodeIllegalArgument)

	require.NoError(t, f.sys.SystemObject().Input().SendKey("x"))
	for _, ev := range f.inj.Events() {
		assert.Zero(t, ev.PID)
	}
}

func TestClicks(t *testing.T) {
	p := ax.Point{X: 10, Y: 20}

	tests := []struct {
		name   string
		click  func(in *ax.Input) error
		button ax.Button
		counts []int
	}{
		{"left", func(in *ax.Input) error { return in.ClickMouseButtonLeft(p) }, ax.ButtonLeft, []int{1}},
		{"right", func(in *ax.Input) error { return in.ClickMouseButtonRight(p) }, ax.ButtonRight, []int{1}},
		{"double", func(in *ax.Input) error { return in.DoubleClickMouse(p) }, ax.ButtonLeft, []int{1, 2}},
		{"triple", func(in *ax.Input) error { return in.TripleClickMouse(p) }, ax.ButtonLeft, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, tt.click(f.el(f.window).Input()))

			var want []ax.Event
			for _, n := range tt.counts {
				want = append(want,
					ax.Event{Kind: ax.EventMouseDown, Button: tt.button, Point: p, ClickCount: n},
					ax.Event{Kind: ax.EventMouseUp, Button: tt.button, Point: p, ClickCount: n},
				)
			}
			assert.Equal(t, want, f.inj.Events())
		})
	}
}

func TestClickWithModifiers(t *testing.T) {
	f := newFixture(t)
	p := ax.Point{X: 1, Y: 1}

	require.NoError(t, f.el(f.window).Input().ClickMouseButtonLeftWithMods(p, []string{"cmd", "shift"}))
	events := f.inj.Events()
	require.Len(t, events, 6)
	assert.Equal(t, ax.Event{Kind: ax.EventKeyDown, Key: ax.ModCommand}, events[0])
	assert.Equal(t, ax.Event{Kind: ax.EventKeyDown, Key: ax.ModShift}, events[1])
	assert.Equal(t, ax.EventMouseDown, events[2].Kind)
	assert.Equal(t, ax.EventMouseUp, events[3].Kind)
	assert.Equal(t, ax.Event{Kind: ax.EventKeyUp, Key: ax.ModShift}, events[4])
	assert.Equal(t, ax.Event{Kind: ax.EventKeyUp, Key: ax.ModCommand}, events[5])
}

func TestDrag(t *testing.T) {
	f := newFixture(t)
	from, to := ax.Point{X: 10, Y: 10}, ax.Point{X: 300, Y: 40}

	require.NoError(t, f.el(f.window).Input().DragMouseButtonLeft(from, to))
	assert.Equal(t, []ax.Event{
		{Kind: ax.EventMouseDown, Button: ax.ButtonLeft, Point: from, ClickCount: 1},
		{Kind: ax.EventMouseDragged, Button: ax.ButtonLeft, Point: to},
		{Kind: ax.EventMouseUp, Button: ax.ButtonLeft, Point: to, ClickCount: 1},
	}, f.inj.Events())
}

func TestDoubleClickDrag(t *testing.T) {
	f := newFixture(t)
	from, to := ax.Point{X: 10, Y: 10}, ax.Point{X: 50, Y: 10}

	require.NoError(t, f.el(f.window).Input().DoubleClickDragMouseButtonLeft(from, to))
	events := f.inj.Events()
	require.Len(t, events, 6)
	assert.Equal(t, 1, events[0].ClickCount)
	assert.Equal(t, 2, events[3].ClickCount)
	assert.Equal(t, to, events[5].Point)
}

func TestLeftMouseDraggedFromCurrentLocation(t *testing.T) {
	f := newFixture(t)
	f.inj.MoveTo(ax.Point{X: 7, Y: 8})

	require.NoError(t, f.el(f.window).Input().LeftMouseDragged(ax.Point{X: 70, Y: 80}, nil))
	events := f.inj.Events()
	require.Len(t, events, 3)
	assert.Equal(t, ax.Point{X: 7, Y: 8}, events[0].Point)
	assert.Equal(t, ax.Point{X: 70, Y: 80}, events[2].Point)
}

func TestLeftMouseDraggedFromOrigin(t *testing.T) {
	f := newFixture(t)
	f.inj.MoveTo(ax.Point{X: 7, Y: 8})

	require.NoError(t, f.el(f.window).Input().LeftMouseDragged(ax.Point{X: 70, Y: 80}, &ax.Point{}))
	events := f.inj.Events()
	require.Len(t, events, 3)
	assert.Equal(t, ax.Point{}, events[0].Point)
	assert.Equal(t, ax.Point{X: 70, Y: 80}, events[2].Point)
}

func TestFlushClearsQueueOnError(t *testing.T) {
	f := newFixture(t)
	f.inj.Err = errors.New("注入失败")
	in := f.el(f.field).Input()

	err := in.SendKey("a")
	require.Error(t, err)
	assert.Empty(t, in.Pending())
}

func TestModifierAliases(t *testing.T) {
	tests := map[string]string{
		"shift":   ax.ModShift,
		"Control": ax.ModControl,
		"ctrl":    ax.ModControl,
		"option":  ax.ModOption,
		"alt":     ax.ModOption,
		"COMMAND": ax.ModCommand,
		"cmd":     ax.ModCommand,
	}
	for alias, want := range tests {
		got, ok := ax.NormalizeModifier(alias)
		assert.True(t, ok, alias)
		assert.Equal(t, want, got, alias)
	}
	_, ok := ax.NormalizeModifier("fn")
	assert.False(t, ok)
}

func TestLayoutLookup(t *testing.T) {
	l := ax.USLayout()

	ks, ok := l.Lookup("Enter")
	require.True(t, ok)
	assert.Equal(t, ax.KeyStroke{Key: "enter"}, ks)

	ks, ok = l.Lookup("\n")
	require.True(t, ok)
	assert.Equal(t, "enter", ks.Key)

	ks, ok = l.Lookup("%")
	require.True(t, ok)
	assert.Equal(t, ax.KeyStroke{Key: "5", Shift: true}, ks)

	_, ok = l.Lookup("ñ")
	assert.False(t, ok)
}
