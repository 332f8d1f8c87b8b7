package ax

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWaitTimeout 等待通知的默认超时
	DefaultWaitTimeout = 10 * time.Second
	// DefaultPopUpDelay 弹出菜单展开的等待时间
	DefaultPopUpDelay = 500 * time.Millisecond
	// DefaultDragInterval 拖拽事件间隔
	DefaultDragInterval = 500 * time.Millisecond
)

// Option 配置选项函数类型
type Option func(*Options)

// Options System 配置
type Options struct {
	// Logger 结构化日志，默认不输出
	Logger *zap.Logger
	// WaitTimeout 便捷等待方法的默认超时
	WaitTimeout time.Duration
	// PopUpDelay PopUpItem 按下后的等待时间
	PopUpDelay time.Duration
	// InputInterval 输入事件之间的间隔
	InputInterval time.Duration
	// DragInterval 拖拽事件之间的间隔
	DragInterval time.Duration
	// HandleInterrupt 等待期间捕获 SIGINT 并中断等待
	HandleInterrupt bool
	// Layout 键盘布局
	Layout Layout
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		Logger:          zap.NewNop(),
		WaitTimeout:     DefaultWaitTimeout,
		PopUpDelay:      DefaultPopUpDelay,
		InputInterval:   0,
		DragInterval:    DefaultDragInterval,
		HandleInterrupt: true,
		Layout:          USLayout(),
	}
}

// ApplyOptions 应用配置选项
func ApplyOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithWaitTimeout 设置默认等待超时
func WithWaitTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.WaitTimeout = d
		}
	}
}

// WithPopUpDelay 设置弹出菜单等待时间
func WithPopUpDelay(d time.Duration) Option {
	return func(o *Options) {
		o.PopUpDelay = d
	}
}

// WithInputInterval 设置输入事件间隔
func WithInputInterval(d time.Duration) Option {
	return func(o *Options) {
		o.InputInterval = d
	}
}

// WithDragInterval 设置拖拽事件间隔
func WithDragInterval(d time.Duration) Option {
	return func(o *Options) {
		o.DragInterval = d
	}
}

// WithInterruptHandling 设置是否在等待期间捕获 SIGINT
func WithInterruptHandling(enabled bool) Option {
	return func(o *Options) {
		o.HandleInterrupt = enabled
	}
}

// WithLayout 设置键盘布局
func WithLayout(l Layout) Option {
	return func(o *Options) {
		if l != nil {
			o.Layout = l
		}
	}
}

// System 无障碍会话，持有原生服务、输入服务和进程服务
type System struct {
	native   Native
	injector Injector
	procs    Processes
	opts     *Options
	log      *zap.Logger
}

// New 创建 System，injector 和 procs 可以为 nil，相关操作会返回 ErrNotImplemented
func New(native Native, injector Injector, procs Processes, opts ...Option) *System {
	o := ApplyOptions(opts...)
	return &System{
		native:   native,
		injector: injector,
		procs:    procs,
		opts:     o,
		log:      o.Logger.Named("ax"),
	}
}

// Native 返回原生服务
func (s *System) Native() Native {
	return s.native
}

// Options 返回当前配置
func (s *System) Options() Options {
	return *s.opts
}

// Logger 返回日志
func (s *System) Logger() *zap.Logger {
	return s.log
}

// Wrap 将原生句柄包装为元素
func (s *System) Wrap(ref Ref) *Element {
	return &Element{sys: s, ref: ref}
}

func (s *System) processes() (Processes, error) {
	if s.procs == nil {
		return nil, &Error{Kind: KindNotImplemented, Message: "未配置进程服务"}
	}
	return s.procs, nil
}

func (s *System) input() (Injector, error) {
	if s.injector == nil {
		return nil, &Error{Kind: KindNotImplemented, Message: "未配置输入服务"}
	}
	return s.injector, nil
}
