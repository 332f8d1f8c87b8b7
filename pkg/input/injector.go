// Package input 提供基于 robotgo 的输入注入服务
package input

import (
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// Injector 实现 ax.Injector
//
// 按键通过 robotgo 投递，pid 大于 0 时直接发往该进程；
// 鼠标按键按平台实现投递，macOS 上带点击次数
type Injector struct {
	log *zap.Logger
	mu  sync.Mutex
}

var _ ax.Injector = (*Injector)(nil)

// New 创建输入服务
func New(log *zap.Logger) *Injector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Injector{log: log.Named("input")}
}

// ==================== 键盘 ====================

func (i *Injector) toggleKey(key string, state string, pid int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	args := []interface{}{state}
	if pid > 0 {
		args = append(args, pid)
	}
	if err := robotgo.KeyToggle(key, args...); err != nil {
		return fmt.Errorf("按键 %s %s 失败: %w", key, state, err)
	}
	i.log.Debug("按键", zap.String("key", key), zap.String("state", state), zap.Int("pid", pid))
	return nil
}

// KeyDown 按下按键
func (i *Injector) KeyDown(key string, pid int) error {
	return i.toggleKey(key, "down", pid)
}

// KeyUp 释放按键
func (i *Injector) KeyUp(key string, pid int) error {
	return i.toggleKey(key, "up", pid)
}

// ==================== 鼠标 ====================

// MouseDown 移动到 p 并按下鼠标按键
func (i *Injector) MouseDown(button ax.Button, p ax.Point, clickCount int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := postMouseButton(button, p, true, clickCount); err != nil {
		return fmt.Errorf("按下鼠标 %s 失败: %w", button, err)
	}
	return nil
}

// MouseUp 在 p 释放鼠标按键
func (i *Injector) MouseUp(button ax.Button, p ax.Point, clickCount int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := postMouseButton(button, p, false, clickCount); err != nil {
		return fmt.Errorf("释放鼠标 %s 失败: %w", button, err)
	}
	return nil
}

// MouseDragged 按住按键拖到 p
func (i *Injector) MouseDragged(button ax.Button, p ax.Point) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := postMouseDragged(button, p); err != nil {
		return fmt.Errorf("拖拽鼠标失败: %w", err)
	}
	return nil
}

// Location 获取鼠标位置
func (i *Injector) Location() ax.Point {
	x, y := robotgo.Location()
	return ax.Point{X: float64(x), Y: float64(y)}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
