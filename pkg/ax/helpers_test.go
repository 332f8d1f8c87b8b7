package ax_test

import (
	"testing"
	"time"

	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/ax/mock"
)

const testPID = 4242

// fixture 测试用的应用树
//
//	AXApplication "TextEdit"
//	├── AXWindow "Untitled"
//	│   ├── AXGroup
//	│   │   ├── AXButton "OK"
//	│   │   └── AXTextField
//	│   └── AXButton "Cancel"
//	└── AXMenuBar
//	    ├── AXMenuBarItem "Apple"
//	    └── AXMenuBarItem "File"
//	        └── AXMenu
//	            ├── AXMenuItem "New"
//	            └── AXMenuItem "Open…"
type fixture struct {
	sys    *ax.System
	native *mock.Native
	inj    *mock.Injector
	procs  *mock.Processes

	app      *mock.Node
	window   *mock.Node
	group    *mock.Node
	ok       *mock.Node
	field    *mock.Node
	cancel   *mock.Node
	menuBar  *mock.Node
	fileItem *mock.Node
	newItem  *mock.Node
	openItem *mock.Node
}

func newFixture(t *testing.T, opts ...ax.Option) *fixture {
	t.Helper()

	f := &fixture{
		native: mock.New(),
		inj:    mock.NewInjector(),
		procs: mock.NewProcesses(ax.AppProcess{
			PID:           testPID,
			BundleID:      "com.apple.TextEdit",
			LocalizedName: "TextEdit",
			Path:          "/System/Applications/TextEdit.app",
		}),
	}

	f.ok = mock.NewNode(ax.RoleButton).Title("OK").Actions("Press")
	f.field = mock.NewNode(ax.RoleTextField).
		Set("AXRoleDescription", "text field").
		Set("AXValue", "hello").
		Settable("AXValue")
	f.group = mock.NewNode(ax.RoleGroup).Set("AXRoleDescription", "group").Add(f.ok, f.field)
	f.cancel = mock.NewNode(ax.RoleButton).Title("Cancel").Actions("Press")
	f.window = mock.NewNode(ax.RoleWindow).
		Title("Untitled").
		Set("AXPosition", ax.RawStruct{Type: ax.StructPoint, Fields: []float64{100, 200}}).
		Set("AXSize", ax.RawStruct{
			Repr: "<AXValue 0x600003a0c0c0 [kCFAllocatorDefault]>{value = w:640.000000 h:480.000000 type = kAXValueCGSizeType}",
		}).
		Add(f.group, f.cancel)

	f.newItem = mock.NewNode(ax.RoleMenuItem).Title("New").Actions("Press")
	f.openItem = mock.NewNode(ax.RoleMenuItem).Title("Open…").Actions("Press")
	f.fileItem = mock.NewNode("AXMenuBarItem").Title("File").
		Add(mock.NewNode(ax.RoleMenu).Add(f.newItem, f.openItem))
	f.menuBar = mock.NewNode(ax.RoleMenuBar).
		Add(mock.NewNode("AXMenuBarItem").Title("Apple"), f.fileItem)

	f.app = mock.NewNode(ax.RoleApplication).
		Title("TextEdit").
		Set("AXFrontmost", true).
		Set("AXMenuBar", f.menuBar).
		Add(f.window, f.menuBar)
	f.app.Set("AXWindows", []*mock.Node{f.window})
	f.native.AddApp(testPID, f.app)

	opts = append([]ax.Option{
		ax.WithPopUpDelay(0),
		ax.WithDragInterval(0),
		ax.WithWaitTimeout(time.Second),
		ax.WithInterruptHandling(false),
	}, opts...)
	f.sys = ax.New(f.native, f.inj, f.procs, opts...)
	return f
}

// el 包装节点
func (f *fixture) el(n *mock.Node) *ax.Element {
	return f.sys.Wrap(n)
}

func (f *fixture) appElement() *ax.Element {
	return f.sys.AppByPID(testPID)
}
