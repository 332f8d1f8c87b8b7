// Package process 提供 GUI 应用的进程管理，实现 ax.Processes
package process

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// launchTimeout 启动命令的超时
const launchTimeout = 30 * time.Second

// Runner 执行外部命令
type Runner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

// Service 进程服务
type Service struct {
	log *zap.Logger

	list      func() ([]ax.AppProcess, error)
	activate  func(pid int) error
	frontmost func() (int, error)
	terminate func(pid int) bool
	run       Runner
}

var _ ax.Processes = (*Service)(nil)

// New 创建进程服务
func New(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		log:       log.Named("process"),
		list:      runningApps,
		activate:  activateApp,
		frontmost: frontmostPID,
		terminate: terminateApp,
		run:       runCommand,
	}
}

// WithRunner 替换外部命令执行器
func (s *Service) WithRunner(run Runner) *Service {
	s.run = run
	return s
}

// ==================== 查询 ====================

// Running 返回运行中的 GUI 应用
func (s *Service) Running() ([]ax.AppProcess, error) {
	apps, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("获取运行中的应用失败: %w", err)
	}
	for i := range apps {
		if apps[i].Path == "" {
			apps[i].Path = exePath(apps[i].PID)
		}
	}
	return apps, nil
}

// BundleID 返回进程的 bundle id
func (s *Service) BundleID(pid int) (string, error) {
	apps, err := s.list()
	if err != nil {
		return "", fmt.Errorf("获取运行中的应用失败: %w", err)
	}
	for _, app := range apps {
		if app.PID == pid {
			if app.BundleID == "" {
				return "", fmt.Errorf("进程没有 bundle id: PID=%d", pid)
			}
			return app.BundleID, nil
		}
	}
	return "", fmt.Errorf("进程不存在: PID=%d", pid)
}

// FrontmostPID 返回前台应用的 PID
func (s *Service) FrontmostPID() (int, error) {
	pid, err := s.frontmost()
	if err != nil {
		return 0, fmt.Errorf("获取前台应用失败: %w", err)
	}
	return pid, nil
}

// ==================== 控制 ====================

// Launch 按 bundle id 启动应用，不等待启动完成
func (s *Service) Launch(bundleID string) error {
	if bundleID == "" {
		return fmt.Errorf("bundle id 不能为空")
	}
	ctx, cancel := context.WithTimeout(context.Background(), launchTimeout)
	defer cancel()
	if err := s.run(ctx, "open", "-g", "-b", bundleID); err != nil {
		return fmt.Errorf("启动应用 %s 失败: %w", bundleID, err)
	}
	s.log.Info("已启动应用", zap.String("bundle_id", bundleID))
	return nil
}

// LaunchPath 按路径启动应用
func (s *Service) LaunchPath(path string) error {
	if path == "" {
		return fmt.Errorf("应用路径不能为空")
	}
	ctx, cancel := context.WithTimeout(context.Background(), launchTimeout)
	defer cancel()
	if err := s.run(ctx, "open", "-g", path); err != nil {
		return fmt.Errorf("启动应用 %s 失败: %w", path, err)
	}
	s.log.Info("已启动应用", zap.String("path", path))
	return nil
}

// Terminate 请求 bundle id 对应的所有进程退出
func (s *Service) Terminate(bundleID string) (bool, error) {
	apps, err := s.list()
	if err != nil {
		return false, fmt.Errorf("获取运行中的应用失败: %w", err)
	}
	terminated := false
	for _, app := range apps {
		if app.BundleID != bundleID {
			continue
		}
		if s.terminate(app.PID) {
			terminated = true
			s.log.Info("已终止应用", zap.String("bundle_id", bundleID), zap.Int("pid", app.PID))
		}
	}
	return terminated, nil
}

// Activate 激活应用到前台
func (s *Service) Activate(pid int) error {
	if err := s.activate(pid); err != nil {
		return fmt.Errorf("激活应用失败: PID=%d: %w", pid, err)
	}
	return nil
}

// Kill 强制结束进程
func (s *Service) Kill(pid int) error {
	if err := robotgo.Kill(pid); err != nil {
		return fmt.Errorf("结束进程失败: PID=%d: %w", pid, err)
	}
	return nil
}

// ==================== 进程信息 ====================

// Info 进程信息
type Info struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Find 按名称查找进程 (不区分大小写，支持部分匹配)
func Find(name string) ([]Info, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	name = strings.ToLower(name)
	var matches []Info
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue
		}
		procName, err := proc.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(procName), name) {
			exe, _ := proc.Exe()
			matches = append(matches, Info{PID: int(pid), Name: procName, Path: exe})
		}
	}
	return matches, nil
}

// IsRunning 检查进程是否正在运行
func IsRunning(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	return err == nil && running
}

func exePath(pid int) string {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	exe, _ := proc.Exe()
	return exe
}
