// Package ax 提供 macOS 无障碍接口的 UI 自动化绑定
//
// 原生服务、输入注入服务和进程服务都以接口注入，
// darwin 实现见 pkg/native、pkg/input、pkg/process，测试替身见 pkg/ax/mock。
package ax

import (
	"context"
	"time"
)

// Ref 原生无障碍对象的不透明句柄，nil 表示空元素
type Ref any

// ObserverRef 原生观察者句柄
type ObserverRef any

// RawElement 原生属性值中的元素引用
type RawElement struct {
	Ref Ref
}

// StructType 打包结构的类型标记
type StructType int

const (
	StructUnknown StructType = iota
	StructPoint
	StructSize
	StructRect
	StructRange
)

func (t StructType) String() string {
	switch t {
	case StructPoint:
		return "kAXValueCGPointType"
	case StructSize:
		return "kAXValueCGSizeType"
	case StructRect:
		return "kAXValueCGRectType"
	case StructRange:
		return "kAXValueCFRangeType"
	default:
		return "kAXValueIllegalType"
	}
}

// RawStruct 原生属性值中的打包几何/区间结构
//
// Fields 为空时从 Repr 的花括号片段解析，例如
// "<AXValue 0x1 [kCFAllocatorDefault]>{value = x:10.000000 y:20.000000 type = kAXValueCGPointType}"
type RawStruct struct {
	Type   StructType
	Fields []float64
	Repr   string
}

// ObserverCallback 通知回调，在运行循环线程上调用
type ObserverCallback func(ref Ref, notification string, context string)

// Native 原生无障碍服务
//
// 所有方法返回原生状态码，由 CheckError 转换为错误
type Native interface {
	CreateApplication(pid int) Ref
	CreateSystemWide() Ref

	AttributeNames(ref Ref) ([]string, Code)
	// AttributeValue 返回原生值: string、bool、整数、浮点、[]any、RawElement、RawStruct 或 nil
	AttributeValue(ref Ref, name string) (any, Code)
	IsAttributeSettable(ref Ref, name string) (bool, Code)
	SetAttributeValue(ref Ref, name string, value any) Code

	ActionNames(ref Ref) ([]string, Code)
	PerformAction(ref Ref, action string) Code

	PID(ref Ref) (int, Code)
	ElementAtPosition(ref Ref, x, y float64) (Ref, Code)
	SetMessagingTimeout(ref Ref, seconds float64) Code
	Equal(a, b Ref) bool

	CreateObserver(pid int, cb ObserverCallback) (ObserverRef, Code)
	AddNotification(obs ObserverRef, ref Ref, notification string, context string) Code
	RemoveNotification(obs ObserverRef, ref Ref, notification string) Code
	// AttachObserver 将观察者的运行循环源加入 loop
	AttachObserver(obs ObserverRef, loop RunLoop) Code
	DetachObserver(obs ObserverRef, loop RunLoop) Code
	ReleaseObserver(obs ObserverRef)

	NewRunLoop() RunLoop
	IsTrusted(prompt bool) bool
}

// RunLoop 宿主事件循环
//
// Run 阻塞调用线程直到 Stop 被调用或 ctx 结束；Stop 可重复调用，
// 在 Run 之前调用 Stop 会使随后的 Run 立即返回
type RunLoop interface {
	Run(ctx context.Context) error
	Stop()
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Button 鼠标按键
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Injector 输入注入服务
//
// pid 为 0 时事件发往系统，由系统分发给拥有键盘焦点的窗口
type Injector interface {
	KeyDown(key string, pid int) error
	KeyUp(key string, pid int) error
	MouseDown(button Button, p Point, clickCount int) error
	MouseUp(button Button, p Point, clickCount int) error
	MouseDragged(button Button, p Point) error
	Location() Point
}

// AppProcess 运行中的 GUI 应用
type AppProcess struct {
	PID           int    `json:"pid"`
	BundleID      string `json:"bundle_id"`
	LocalizedName string `json:"localized_name"`
	Path          string `json:"path"`
}

// Processes 进程管理服务
type Processes interface {
	Running() ([]AppProcess, error)
	BundleID(pid int) (string, error)
	Launch(bundleID string) error
	LaunchPath(path string) error
	// Terminate 终止指定 bundle id 的所有进程，返回是否终止了至少一个
	Terminate(bundleID string) (bool, error)
	Activate(pid int) error
	FrontmostPID() (int, error)
}
