package ax_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/ax/mock"
)

func TestElementEqual(t *testing.T) {
	f := newFixture(t)

	a := f.el(f.ok)
	b := f.sys.Wrap(f.ok)
	assert.True(t, a.Equal(b), "同一原生对象的两个视图相等")
	assert.False(t, a.Equal(f.el(f.cancel)))

	var null *ax.Element
	assert.True(t, null.Equal(f.sys.Wrap(nil)))
	assert.False(t, a.Equal(nil))
	assert.False(t, null.Equal(a))
}

func TestGetAttribute(t *testing.T) {
	f := newFixture(t)
	win := f.el(f.window)

	title, err := win.GetAttribute("AXTitle")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", title)

	size, err := win.Size()
	require.NoError(t, err)
	assert.Equal(t, ax.Size{Width: 640, Height: 480}, size)

	pos, err := win.Position()
	require.NoError(t, err)
	assert.Equal(t, ax.Point{X: 100, Y: 200}, pos)

	_, err = win.GetAttribute("AXNoSuchThing")
	assert.ErrorIs(t, err, ax.ErrUndefinedAttribute)
	assert.ErrorIs(t, err, ax.ErrUnsupported)
}

func TestGetAttributeNativeError(t *testing.T) {
	f := newFixture(t)
	f.cancel.Fail(mock.OpGet, "AXTitle", ax.CodeCannotComplete)

	_, err := f.el(f.cancel).GetAttribute("AXTitle")
	assert.ErrorIs(t, err, ax.ErrCannotComplete)
	assert.Contains(t, err.Error(), "AXTitle")
}

func TestAttributeNamesFailure(t *testing.T) {
	f := newFixture(t)
	f.cancel.Fail(mock.OpNames, "", ax.CodeInvalidUIElement)

	_, err := f.el(f.cancel).AttributeNames()
	assert.ErrorIs(t, err, ax.ErrInvalidElement)
	assert.False(t, f.el(f.cancel).HasAttribute("AXRole"))
}

func TestChildrenNoValueIsEmpty(t *testing.T) {
	f := newFixture(t)
	leaf := mock.NewNode(ax.RoleGroup).Fail(mock.OpGet, "AXChildren", ax.CodeNoValue)
	f.window.Add(leaf)

	v, err := f.el(leaf).GetAttribute("AXChildren")
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)

	children, err := f.el(leaf).Children()
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestNoValueOnOtherAttributeIsError(t *testing.T) {
	f := newFixture(t)
	f.field.Fail(mock.OpGet, "AXValue", ax.CodeNoValue)

	_, err := f.el(f.field).GetAttribute("AXValue")
	assert.ErrorIs(t, err, ax.ErrNoValue)
}

func TestSetAttribute(t *testing.T) {
	f := newFixture(t)
	field := f.el(f.field)

	require.NoError(t, field.SetAttribute("AXValue", "world"))
	v, err := field.GetAttribute("AXValue")
	require.NoError(t, err)
	assert.Equal(t, "world", v)

	require.NoError(t, field.SetString("AXValue", 42))
	assert.Equal(t, "42", f.field.Value("AXValue"))
}

func TestSetAttributeNotSettable(t *testing.T) {
	f := newFixture(t)

	err := f.el(f.ok).SetAttribute("AXTitle", "Yes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ax.ErrUnsupported)
	assert.Equal(t, "OK", f.ok.Value("AXTitle"), "不可设置的属性保持原值")
}

func TestSetAttributeUndefined(t *testing.T) {
	f := newFixture(t)
	err := f.el(f.ok).SetAttribute("AXNoSuchThing", 1)
	assert.ErrorIs(t, err, ax.ErrUndefinedAttribute)
}

func TestSetAttributeIllegalArgumentIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.field.Fail(mock.OpSet, "AXValue", ax.CodeIllegalArgument)
	assert.NoError(t, f.el(f.field).SetAttribute("AXValue", ax.Point{X: 1, Y: 2}))

	f.ok.Fail(mock.OpSettable, "AXTitle", ax.CodeIllegalArgument)
	assert.NoError(t, f.el(f.ok).SetAttribute("AXTitle", "x"))
}

func TestSetAttributeStructIsPacked(t *testing.T) {
	f := newFixture(t)
	f.window.Settable("AXPosition")

	require.NoError(t, f.el(f.window).SetAttribute("AXPosition", ax.Point{X: 5, Y: 6}))
	assert.Equal(t, ax.RawStruct{Type: ax.StructPoint, Fields: []float64{5, 6}}, f.window.Value("AXPosition"))

	pos, err := f.el(f.window).Position()
	require.NoError(t, err)
	assert.Equal(t, ax.Point{X: 5, Y: 6}, pos)
}

func TestActions(t *testing.T) {
	f := newFixture(t)
	ok := f.el(f.ok)

	names, err := ok.ActionNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Press"}, names)
	assert.True(t, ok.HasAction("Press"))
	assert.True(t, ok.HasAction("AXPress"))
	assert.False(t, ok.HasAction("Cancel"))

	require.NoError(t, ok.PerformAction("Press"))
	performed := f.native.Performed()
	require.Len(t, performed, 1)
	assert.Equal(t, "AXPress", performed[0].Action)
	assert.Same(t, f.ok, performed[0].Node)

	err = ok.PerformAction("ShowMenu")
	assert.ErrorIs(t, err, ax.ErrActionUnsupported)
}

func TestInvokeActionActivatesApp(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.el(f.ok).InvokeAction("Press"))
	assert.Equal(t, []int{testPID}, f.procs.Activated())
	assert.Len(t, f.native.Performed(), 1)

	err := f.el(f.ok).InvokeAction("Raise")
	assert.ErrorIs(t, err, ax.ErrUndefinedAction)
}

func TestGetDynamic(t *testing.T) {
	f := newFixture(t)
	ok := f.el(f.ok)

	v, err := ok.Get("AXTitle")
	require.NoError(t, err)
	assert.Equal(t, "OK", v)

	v, err = ok.Get("Press")
	require.NoError(t, err)
	action, isAction := v.(ax.Action)
	require.True(t, isAction)
	require.NoError(t, action())
	assert.Equal(t, []int{testPID}, f.procs.Activated())
	assert.Len(t, f.native.Performed(), 1)

	_, err = ok.Get("Nothing")
	assert.ErrorIs(t, err, ax.ErrUndefinedAttribute)
}

func TestElementString(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, `<AXButton "OK">`, f.el(f.ok).String())
	assert.Equal(t, `<AXTextField "hello">`, f.el(f.field).String())
	assert.Equal(t, `<AXGroup "group">`, f.el(f.group).String())
	assert.Equal(t, "<no role>", f.sys.Wrap(nil).String())
	assert.Equal(t, "<no role>", f.el(mock.NewNode("")).String())

	broken := mock.NewNode(ax.RoleButton).Fail(mock.OpNames, "", ax.CodeCannotComplete)
	assert.Equal(t, "<no role>", f.el(broken).String())

	long := mock.NewNode(ax.RoleStaticText).Title(strings.Repeat("x", 100))
	s := f.el(long).String()
	assert.True(t, strings.HasSuffix(s, `..."`+">"), s)
	assert.Less(t, len(s), 60)
}

func TestApplicationAndProcessInfo(t *testing.T) {
	f := newFixture(t)
	ok := f.el(f.ok)

	app, err := ok.Application()
	require.NoError(t, err)
	assert.True(t, app.Equal(f.appElement()))

	pid, err := ok.PID()
	require.NoError(t, err)
	assert.Equal(t, testPID, pid)

	bundle, err := ok.BundleID()
	require.NoError(t, err)
	assert.Equal(t, "com.apple.TextEdit", bundle)

	name, err := ok.LocalizedName()
	require.NoError(t, err)
	assert.Equal(t, "TextEdit", name)

	parent, err := ok.Parent()
	require.NoError(t, err)
	assert.True(t, parent.Equal(f.el(f.group)))

	top, err := f.appElement().Parent()
	require.NoError(t, err)
	assert.Nil(t, top)
}

func TestMissingServices(t *testing.T) {
	f := newFixture(t)
	sys := ax.New(f.native, nil, nil)

	_, err := sys.Wrap(f.ok).BundleID()
	assert.ErrorIs(t, err, ax.ErrNotImplemented)

	err = sys.Wrap(f.ok).Input().SendKey("a")
	assert.ErrorIs(t, err, ax.ErrNotImplemented)
}

func TestSetTimeout(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.appElement().SetTimeout(2.5))
	assert.Equal(t, 2.5, f.app.Timeout())

	err := f.appElement().SetTimeout(-1)
	assert.ErrorIs(t, err, ax.ErrIllegalArgument)

	require.NoError(t, f.sys.SetSystemWideTimeout(0))
	assert.Equal(t, 0.0, f.native.System().Timeout())

	err = f.sys.Wrap(nil).SetTimeout(1)
	assert.ErrorIs(t, err, ax.ErrIllegalArgument)
}
