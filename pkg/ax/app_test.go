package ax_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/ax/mock"
)

func TestAppByBundleID(t *testing.T) {
	f := newFixture(t)

	app, err := f.sys.AppByBundleID("com.apple.TextEdit")
	require.NoError(t, err)
	assert.True(t, app.Equal(f.appElement()))

	_, err = f.sys.AppByBundleID("com.example.missing")
	assert.ErrorIs(t, err, ax.ErrNotFound)
}

func TestAppByLocalizedName(t *testing.T) {
	f := newFixture(t)

	app, err := f.sys.AppByLocalizedName("Text*")
	require.NoError(t, err)
	assert.Equal(t, "TextEdit", app.Title())

	_, err = f.sys.AppByLocalizedName("Finder")
	assert.ErrorIs(t, err, ax.ErrNotFound)
}

func TestRunningAppsError(t *testing.T) {
	f := newFixture(t)
	f.procs.Err = errors.New("boom")

	_, err := f.sys.RunningApps()
	assert.Error(t, err)
	_, err = f.sys.AppByBundleID("com.apple.TextEdit")
	assert.Error(t, err)
}

func TestFrontmostAppSkipsUnreachable(t *testing.T) {
	f := newFixture(t)

	// 没有注册到原生服务的进程: 任何查询都返回 CannotComplete
	f.procs.AddApp(ax.AppProcess{PID: 1, BundleID: "com.example.daemon", LocalizedName: "Daemon"})
	background := mock.NewNode(ax.RoleApplication).Title("Finder").Set("AXFrontmost", false)
	f.native.AddApp(2, background)
	f.procs.AddApp(ax.AppProcess{PID: 2, BundleID: "com.apple.finder", LocalizedName: "Finder"})

	f.app.Set("AXFrontmost", false)
	front := mock.NewNode(ax.RoleApplication).Title("Terminal").Set("AXFrontmost", true)
	f.native.AddApp(3, front)
	f.procs.AddApp(ax.AppProcess{PID: 3, BundleID: "com.apple.Terminal", LocalizedName: "Terminal"})

	app, err := f.sys.FrontmostApp()
	require.NoError(t, err)
	assert.Equal(t, "Terminal", app.Title())
}

func TestFrontmostAppNone(t *testing.T) {
	f := newFixture(t)
	f.app.Set("AXFrontmost", false)

	_, err := f.sys.FrontmostApp()
	assert.ErrorIs(t, err, ax.ErrNotFound)
}

func TestAppsWithWindows(t *testing.T) {
	f := newFixture(t)
	f.native.AddApp(7, mock.NewNode(ax.RoleApplication).Set("AXWindows", []any{}))
	f.procs.AddApp(ax.AppProcess{PID: 7, BundleID: "com.example.agent"})

	apps, err := f.sys.AppsWithWindows()
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.True(t, apps[0].Equal(f.appElement()))
}

func TestElementAtPosition(t *testing.T) {
	f := newFixture(t)
	f.native.PlaceAt(ax.Rect{Size: ax.Size{Width: 1000, Height: 1000}}, f.window)
	f.native.PlaceAt(ax.Rect{Origin: ax.Point{X: 110, Y: 210}, Size: ax.Size{Width: 80, Height: 24}}, f.ok)

	el, err := f.sys.ElementAtPosition(ax.Point{X: 120, Y: 220})
	require.NoError(t, err)
	assert.True(t, el.Equal(f.el(f.ok)))

	el, err = f.sys.ElementAtPosition(ax.Point{X: 500, Y: 500})
	require.NoError(t, err)
	assert.True(t, el.Equal(f.el(f.window)))

	_, err = f.sys.ElementAtPosition(ax.Point{X: math.NaN(), Y: 1})
	assert.ErrorIs(t, err, ax.ErrInvalidArguments)

	_, err = f.appElement().ElementAtPosition(ax.Point{X: 5000, Y: 5000})
	assert.ErrorIs(t, err, ax.ErrNoValue)
}

func TestLaunchAndTerminate(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sys.LaunchAppByBundleID("com.apple.Calculator"))
	require.NoError(t, f.sys.LaunchAppByBundlePath("/System/Applications/Chess.app"))
	assert.Equal(t, []string{"com.apple.Calculator", "/System/Applications/Chess.app"}, f.procs.Launched())

	ok, err := f.sys.TerminateAppByBundleID("com.apple.TextEdit")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.sys.TerminateAppByBundleID("com.apple.TextEdit")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessibilityTrust(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.sys.IsAccessibilityEnabled())
	f.native.SetTrusted(false)
	assert.False(t, f.sys.IsAccessibilityEnabled())
	assert.Zero(t, f.native.Prompts())

	assert.False(t, f.sys.RequestAccessibility())
	assert.Equal(t, 1, f.native.Prompts())
}

func TestMenuItemByTitle(t *testing.T) {
	f := newFixture(t)

	item, err := f.el(f.ok).MenuItem("File", "New")
	require.NoError(t, err)
	assert.True(t, item.Equal(f.el(f.newItem)))
	assert.Equal(t, []int{testPID}, f.procs.Activated())

	item, err = f.appElement().MenuItem("Fi*", "Open*")
	require.NoError(t, err)
	assert.True(t, item.Equal(f.el(f.openItem)))
}

func TestMenuItemByIndex(t *testing.T) {
	f := newFixture(t)

	item, err := f.appElement().MenuItem(1, 0)
	require.NoError(t, err)
	assert.True(t, item.Equal(f.el(f.newItem)))

	item, err = f.appElement().MenuItem(1, "Open*")
	require.NoError(t, err)
	assert.True(t, item.Equal(f.el(f.openItem)))
}

func TestMenuItemErrors(t *testing.T) {
	f := newFixture(t)
	app := f.appElement()

	_, err := app.MenuItem("Edit")
	assert.ErrorIs(t, err, ax.ErrNotFound)

	_, err = app.MenuItem(1, 5)
	assert.ErrorIs(t, err, ax.ErrNotFound)

	_, err = app.MenuItem(1.5)
	assert.ErrorIs(t, err, ax.ErrInvalidArguments)

	noBar := mock.NewNode(ax.RoleApplication)
	f.native.AddApp(9, noBar)
	_, err = f.el(noBar).MenuItem("File")
	assert.Error(t, err)
}

func TestPopUpItem(t *testing.T) {
	f := newFixture(t)
	red := mock.NewNode(ax.RoleMenuItem).Title("Red")
	blue := mock.NewNode(ax.RoleMenuItem).Title("Blue")
	popup := mock.NewNode(ax.RolePopUpButton).Title("Color").Actions("Press").
		Add(mock.NewNode(ax.RoleMenu).Add(red, blue))
	f.window.Add(popup)

	item, err := f.el(popup).PopUpItem("Bl*")
	require.NoError(t, err)
	assert.True(t, item.Equal(f.el(blue)))

	performed := f.native.Performed()
	require.Len(t, performed, 1)
	assert.Equal(t, "AXPress", performed[0].Action)

	item, err = f.el(popup).PopUpItem(0)
	require.NoError(t, err)
	assert.True(t, item.Equal(f.el(red)))
}
