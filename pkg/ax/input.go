package ax

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// EventKind 合成事件类型
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventMouseDragged
)

func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "keyDown"
	case EventKeyUp:
		return "keyUp"
	case EventMouseDown:
		return "mouseDown"
	case EventMouseUp:
		return "mouseUp"
	case EventMouseDragged:
		return "mouseDragged"
	default:
		return "unknown"
	}
}

// Event 队列中的合成事件
type Event struct {
	Kind       EventKind
	Key        string
	Button     Button
	Point      Point
	ClickCount int
	// PID 为 0 时事件发往系统
	PID int
}

// Input 元素的输入事件队列
//
// 事件先入队，再按顺序以固定间隔一起投递。队列归单个元素所有，不支持并发写入
type Input struct {
	el    *Element
	queue []Event
}

// Input 返回元素的输入队列
func (e *Element) Input() *Input {
	if e.input == nil {
		e.input = &Input{el: e}
	}
	return e.input
}

// Pending 返回尚未投递的事件
func (in *Input) Pending() []Event {
	return slices.Clone(in.queue)
}

// Clear 清空队列
func (in *Input) Clear() {
	in.queue = in.queue[:0]
}

func (in *Input) push(ev Event) {
	in.queue = append(in.queue, ev)
}

// Flush 按顺序投递队列中的事件，事件之间间隔 interval；无论成功与否都会清空队列
func (in *Input) Flush(interval time.Duration) error {
	defer in.Clear()

	inj, err := in.el.sys.input()
	if err != nil {
		return err
	}

	for i, ev := range in.queue {
		if err := post(inj, ev); err != nil {
			return fmt.Errorf("投递事件 %s 失败: %w", ev.Kind, err)
		}
		if interval > 0 && i < len(in.queue)-1 {
			time.Sleep(interval)
		}
	}
	in.el.sys.log.Debug("输入事件已投递", zap.Int("count", len(in.queue)))
	return nil
}

func post(inj Injector, ev Event) error {
	switch ev.Kind {
	case EventKeyDown:
		return inj.KeyDown(ev.Key, ev.PID)
	case EventKeyUp:
		return inj.KeyUp(ev.Key, ev.PID)
	case EventMouseDown:
		return inj.MouseDown(ev.Button, ev.Point, ev.ClickCount)
	case EventMouseUp:
		return inj.MouseUp(ev.Button, ev.Point, ev.ClickCount)
	case EventMouseDragged:
		return inj.MouseDragged(ev.Button, ev.Point)
	default:
		return fmt.Errorf("未知事件类型: %d", ev.Kind)
	}
}

// targetPID 按键事件的目标进程，元素没有 PID (如系统级元素) 时发往系统
func (in *Input) targetPID(global bool) int {
	if global {
		return 0
	}
	pid, err := in.el.PID()
	if err != nil {
		in.el.sys.log.Debug("元素没有 PID，按键发往系统", zap.Error(err))
		return 0
	}
	return pid
}

// ==================== 修饰键 ====================

func normalizeModifiers(mods []string) ([]string, error) {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		n, ok := NormalizeModifier(m)
		if !ok {
			return nil, unknownKey(m)
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (in *Input) queueModifiers(mods []string, down bool, pid int) {
	if down {
		for _, m := range mods {
			in.push(Event{Kind: EventKeyDown, Key: m, PID: pid})
		}
		return
	}
	for i := len(mods) - 1; i >= 0; i-- {
		in.push(Event{Kind: EventKeyUp, Key: mods[i], PID: pid})
	}
}

func unknownKey(key string) error {
	return &Error{Kind: KindIllegalArgument, Message: "当前键盘布局中没有该按键", Name: fmt.Sprintf("%q", key), Cause: ErrUnknownKey}
}

// ==================== 键盘 ====================

// queueKey 按下修饰键、敲击按键、逆序释放修饰键；未知按键时清空队列
func (in *Input) queueKey(key string, mods []string, pid int) error {
	ks, ok := in.el.sys.opts.Layout.Lookup(key)
	if !ok {
		in.Clear()
		return unknownKey(key)
	}
	mods, err := normalizeModifiers(mods)
	if err != nil {
		in.Clear()
		return err
	}
	if ks.Shift && !slices.Contains(mods, ModShift) {
		mods = append(mods, ModShift)
	}

	in.queueModifiers(mods, true, pid)
	in.push(Event{Kind: EventKeyDown, Key: ks.Key, PID: pid})
	in.push(Event{Kind: EventKeyUp, Key: ks.Key, PID: pid})
	in.queueModifiers(mods, false, pid)
	return nil
}

func (in *Input) sendKey(key string, mods []string, global bool) error {
	if err := in.queueKey(key, mods, in.targetPID(global)); err != nil {
		return err
	}
	return in.Flush(in.el.sys.opts.InputInterval)
}

// SendKey 向元素所属应用发送一个按键，大写字母和上档符号自动加 shift
func (in *Input) SendKey(key string) error {
	return in.sendKey(key, nil, false)
}

// SendGlobalKey 向系统发送一个按键，由系统分发给拥有键盘焦点的窗口
func (in *Input) SendGlobalKey(key string) error {
	return in.sendKey(key, nil, true)
}

// SendKeyWithModifiers 按住修饰键发送一个按键
func (in *Input) SendKeyWithModifiers(key string, mods []string) error {
	return in.sendKey(key, mods, false)
}

// SendGlobalKeyWithModifiers 按住修饰键向系统发送一个按键
func (in *Input) SendGlobalKeyWithModifiers(key string, mods []string) error {
	return in.sendKey(key, mods, true)
}

// SendKeys 逐字符发送字符串；有未知字符时不发送任何按键
func (in *Input) SendKeys(text string) error {
	pid := in.targetPID(false)
	for _, r := range text {
		if err := in.queueKey(string(r), nil, pid); err != nil {
			return err
		}
	}
	return in.Flush(in.el.sys.opts.InputInterval)
}

// PressModifiers 按住修饰键
func (in *Input) PressModifiers(mods []string) error {
	norm, err := normalizeModifiers(mods)
	if err != nil {
		return err
	}
	in.queueModifiers(norm, true, in.targetPID(false))
	return in.Flush(in.el.sys.opts.InputInterval)
}

// ReleaseModifiers 逆序释放修饰键
func (in *Input) ReleaseModifiers(mods []string) error {
	norm, err := normalizeModifiers(mods)
	if err != nil {
		return err
	}
	in.queueModifiers(norm, false, in.targetPID(false))
	return in.Flush(in.el.sys.opts.InputInterval)
}

// ==================== 鼠标 ====================

// queueMouseButton 入队一次点击；dest 不为空时在按下后拖到 dest 再释放
func (in *Input) queueMouseButton(p Point, button Button, clickCount int, dest *Point) {
	in.push(Event{Kind: EventMouseDown, Button: button, Point: p, ClickCount: clickCount})
	up := p
	if dest != nil {
		in.push(Event{Kind: EventMouseDragged, Button: button, Point: *dest})
		up = *dest
	}
	in.push(Event{Kind: EventMouseUp, Button: button, Point: up, ClickCount: clickCount})
}

// clickWithMods 按住修饰键点击 clicks 次，第 i 次点击的 clickCount 为 i
func (in *Input) clickWithMods(p Point, button Button, mods []string, clicks int) error {
	norm, err := normalizeModifiers(mods)
	if err != nil {
		return err
	}
	in.queueModifiers(norm, true, 0)
	for i := 1; i <= clicks; i++ {
		in.queueMouseButton(p, button, i, nil)
	}
	in.queueModifiers(norm, false, 0)
	return in.Flush(in.el.sys.opts.InputInterval)
}

// ClickMouseButtonLeft 左键点击
func (in *Input) ClickMouseButtonLeft(p Point) error {
	return in.clickWithMods(p, ButtonLeft, nil, 1)
}

// ClickMouseButtonRight 右键点击
func (in *Input) ClickMouseButtonRight(p Point) error {
	return in.clickWithMods(p, ButtonRight, nil, 1)
}

// ClickMouseButtonLeftWithMods 按住修饰键左键点击
func (in *Input) ClickMouseButtonLeftWithMods(p Point, mods []string) error {
	return in.clickWithMods(p, ButtonLeft, mods, 1)
}

// ClickMouseButtonRightWithMods 按住修饰键右键点击
func (in *Input) ClickMouseButtonRightWithMods(p Point, mods []string) error {
	return in.clickWithMods(p, ButtonRight, mods, 1)
}

// DoubleClickMouse 左键双击
func (in *Input) DoubleClickMouse(p Point) error {
	return in.clickWithMods(p, ButtonLeft, nil, 2)
}

// DoubleMouseButtonLeftWithMods 按住修饰键左键双击
func (in *Input) DoubleMouseButtonLeftWithMods(p Point, mods []string) error {
	return in.clickWithMods(p, ButtonLeft, mods, 2)
}

// TripleClickMouse 左键三击
func (in *Input) TripleClickMouse(p Point) error {
	return in.clickWithMods(p, ButtonLeft, nil, 3)
}

// DragMouseButtonLeft 从 from 按下左键拖到 to 释放
func (in *Input) DragMouseButtonLeft(from, to Point) error {
	in.queueMouseButton(from, ButtonLeft, 1, &to)
	return in.Flush(in.el.sys.opts.DragInterval)
}

// DoubleClickDragMouseButtonLeft 在 from 双击后拖到 to
func (in *Input) DoubleClickDragMouseButtonLeft(from, to Point) error {
	in.queueMouseButton(from, ButtonLeft, 1, &to)
	in.queueMouseButton(from, ButtonLeft, 2, &to)
	return in.Flush(in.el.sys.opts.DragInterval)
}

// LeftMouseDragged 左键拖拽到 stop；start 为 nil 时从当前鼠标位置开始
func (in *Input) LeftMouseDragged(stop Point, start *Point) error {
	if start == nil {
		inj, err := in.el.sys.input()
		if err != nil {
			return err
		}
		p := inj.Location()
		start = &p
	}
	return in.DragMouseButtonLeft(*start, stop)
}
