package ax

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ==================== 元素查找 ====================

// AppByPID 返回进程的应用元素，不校验进程是否存在
func (s *System) AppByPID(pid int) *Element {
	return s.Wrap(s.native.CreateApplication(pid))
}

// SystemObject 返回系统级元素
func (s *System) SystemObject() *Element {
	return s.Wrap(s.native.CreateSystemWide())
}

// RunningApps 返回运行中的 GUI 应用
func (s *System) RunningApps() ([]AppProcess, error) {
	procs, err := s.processes()
	if err != nil {
		return nil, err
	}
	apps, err := procs.Running()
	if err != nil {
		return nil, fmt.Errorf("获取应用列表失败: %w", err)
	}
	return apps, nil
}

// AppByBundleID 按 bundle id 返回应用元素，有多个进程时取第一个
func (s *System) AppByBundleID(bundleID string) (*Element, error) {
	apps, err := s.RunningApps()
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if app.BundleID == bundleID {
			return s.AppByPID(app.PID), nil
		}
	}
	return nil, fmt.Errorf("%w: bundle id %s 没有运行中的应用", ErrNotFound, bundleID)
}

// AppByLocalizedName 按本地化名称返回应用元素，name 支持通配符
func (s *System) AppByLocalizedName(name string) (*Element, error) {
	apps, err := s.RunningApps()
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if Glob(app.LocalizedName, name) {
			return s.AppByPID(app.PID), nil
		}
	}
	return nil, fmt.Errorf("%w: 名称为 %s 的应用", ErrNotFound, name)
}

// skippableDuringScan 扫描前台应用时可以跳过的错误
func skippableDuringScan(err error) bool {
	return errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrCannotComplete) ||
		errors.Is(err, ErrAPIDisabled) ||
		errors.Is(err, ErrNotImplemented) ||
		errors.Is(err, ErrInvalidElement)
}

// FrontmostApp 返回 AXFrontmost 为 true 的应用
//
// 不提供无障碍接口的进程会被跳过
func (s *System) FrontmostApp() (*Element, error) {
	apps, err := s.RunningApps()
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		el := s.AppByPID(app.PID)
		v, err := el.GetAttribute("AXFrontmost")
		if err != nil {
			if skippableDuringScan(err) {
				s.log.Debug("跳过应用", zap.Int("pid", app.PID), zap.Error(err))
				continue
			}
			return nil, err
		}
		if front, _ := v.(bool); front {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: 没有前台应用", ErrNotFound)
}

// AppsWithWindows 返回有窗口的应用元素
func (s *System) AppsWithWindows() ([]*Element, error) {
	apps, err := s.RunningApps()
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, app := range apps {
		el := s.AppByPID(app.PID)
		v, err := el.GetAttribute("AXWindows")
		if err != nil {
			continue
		}
		if wins, _ := v.([]any); len(wins) > 0 {
			out = append(out, el)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: 没有带窗口的应用", ErrNotFound)
	}
	return out, nil
}

// ElementAtPosition 返回屏幕坐标处的元素
func (s *System) ElementAtPosition(p Point) (*Element, error) {
	return s.SystemObject().ElementAtPosition(p)
}

// ==================== 进程管理 ====================

// LaunchAppByBundleID 按 bundle id 启动应用
func (s *System) LaunchAppByBundleID(bundleID string) error {
	procs, err := s.processes()
	if err != nil {
		return err
	}
	if err := procs.Launch(bundleID); err != nil {
		return fmt.Errorf("启动应用失败: %s: %w", bundleID, err)
	}
	s.log.Info("应用已启动", zap.String("bundle_id", bundleID))
	return nil
}

// LaunchAppByBundlePath 按 .app 路径启动应用
func (s *System) LaunchAppByBundlePath(path string) error {
	procs, err := s.processes()
	if err != nil {
		return err
	}
	if err := procs.LaunchPath(path); err != nil {
		return fmt.Errorf("启动应用失败: %s: %w", path, err)
	}
	s.log.Info("应用已启动", zap.String("path", path))
	return nil
}

// TerminateAppByBundleID 终止 bundle id 对应的应用，返回是否有进程被终止
func (s *System) TerminateAppByBundleID(bundleID string) (bool, error) {
	procs, err := s.processes()
	if err != nil {
		return false, err
	}
	ok, err := procs.Terminate(bundleID)
	if err != nil {
		return false, fmt.Errorf("终止应用失败: %s: %w", bundleID, err)
	}
	return ok, nil
}

// SetSystemWideTimeout 设置系统级消息超时 (秒)，0 表示使用系统默认值
func (s *System) SetSystemWideTimeout(seconds float64) error {
	return s.SystemObject().SetTimeout(seconds)
}

// IsAccessibilityEnabled 当前进程是否已获得辅助功能权限
func (s *System) IsAccessibilityEnabled() bool {
	return s.native.IsTrusted(false)
}

// RequestAccessibility 请求辅助功能权限 (触发系统弹窗)
func (s *System) RequestAccessibility() bool {
	return s.native.IsTrusted(true)
}
