package mock

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// Injector 记录投递的输入事件
type Injector struct {
	mu     sync.Mutex
	events []ax.Event
	pos    ax.Point
	// Err 不为空时所有投递都返回该错误
	Err error
}

var _ ax.Injector = (*Injector)(nil)

// NewInjector 创建输入服务
func NewInjector() *Injector {
	return &Injector{}
}

// Events 返回已投递的事件
func (i *Injector) Events() []ax.Event {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.events)
}

// Reset 清空记录
func (i *Injector) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.events = nil
}

// MoveTo 设置当前鼠标位置
func (i *Injector) MoveTo(p ax.Point) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pos = p
}

func (i *Injector) record(ev ax.Event) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return i.Err
	}
	i.events = append(i.events, ev)
	if ev.Kind >= ax.EventMouseDown {
		i.pos = ev.Point
	}
	return nil
}

func (i *Injector) KeyDown(key string, pid int) error {
	return i.record(ax.Event{Kind: ax.EventKeyDown, Key: key, PID: pid})
}

func (i *Injector) KeyUp(key string, pid int) error {
	return i.record(ax.Event{Kind: ax.EventKeyUp, Key: key, PID: pid})
}

func (i *Injector) MouseDown(button ax.Button, p ax.Point, clickCount int) error {
	return i.record(ax.Event{Kind: ax.EventMouseDown, Button: button, Point: p, ClickCount: clickCount})
}

func (i *Injector) MouseUp(button ax.Button, p ax.Point, clickCount int) error {
	return i.record(ax.Event{Kind: ax.EventMouseUp, Button: button, Point: p, ClickCount: clickCount})
}

func (i *Injector) MouseDragged(button ax.Button, p ax.Point) error {
	return i.record(ax.Event{Kind: ax.EventMouseDragged, Button: button, Point: p})
}

func (i *Injector) Location() ax.Point {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pos
}

// Processes 内存中的进程服务
type Processes struct {
	mu         sync.Mutex
	apps       []ax.AppProcess
	frontmost  int
	activated  []int
	launched   []string
	terminated []string
	// Err 不为空时 Running 返回该错误
	Err error
}

var _ ax.Processes = (*Processes)(nil)

// NewProcesses 创建进程服务
func NewProcesses(apps ...ax.AppProcess) *Processes {
	return &Processes{apps: apps}
}

// AddApp 添加运行中的应用
func (p *Processes) AddApp(app ax.AppProcess) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apps = append(p.apps, app)
}

// Activated 返回被激活的 PID
func (p *Processes) Activated() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.activated)
}

// Launched 返回启动过的 bundle id 或路径
func (p *Processes) Launched() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.launched)
}

// Terminated 返回终止过的 bundle id
func (p *Processes) Terminated() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.terminated)
}

func (p *Processes) Running() ([]ax.AppProcess, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	return slices.Clone(p.apps), nil
}

func (p *Processes) BundleID(pid int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, app := range p.apps {
		if app.PID == pid {
			return app.BundleID, nil
		}
	}
	return "", fmt.Errorf("进程不存在: PID=%d", pid)
}

func (p *Processes) Launch(bundleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.launched = append(p.launched, bundleID)
	return nil
}

func (p *Processes) LaunchPath(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.launched = append(p.launched, path)
	return nil
}

func (p *Processes) Terminate(bundleID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := len(p.apps)
	p.apps = slices.DeleteFunc(p.apps, func(app ax.AppProcess) bool { return app.BundleID == bundleID })
	if len(p.apps) == before {
		return false, nil
	}
	p.terminated = append(p.terminated, bundleID)
	return true, nil
}

func (p *Processes) Activate(pid int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activated = append(p.activated, pid)
	p.frontmost = pid
	return nil
}

func (p *Processes) FrontmostPID() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frontmost == 0 {
		return 0, fmt.Errorf("没有前台应用")
	}
	return p.frontmost, nil
}
