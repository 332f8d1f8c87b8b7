// Package session 按配置组装无障碍会话
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zoeyai/zoeyax/internal/logger"
	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/config"
	"github.com/zoeyai/zoeyax/pkg/input"
	"github.com/zoeyai/zoeyax/pkg/native"
	"github.com/zoeyai/zoeyax/pkg/process"
)

// Session 一次自动化会话
type Session struct {
	*ax.System

	Config    *config.Config
	Log       *logger.Logger
	Processes *process.Service
}

// Options 将配置转换为 ax 选项
func Options(cfg *config.Config, log *zap.Logger) []ax.Option {
	return []ax.Option{
		ax.WithLogger(log),
		ax.WithWaitTimeout(cfg.AX.WaitTimeout),
		ax.WithPopUpDelay(cfg.AX.PopUpDelay),
		ax.WithInputInterval(cfg.Input.Interval),
		ax.WithDragInterval(cfg.Input.DragInterval),
	}
}

// ConfigureLogger 按配置设置日志级别和文件输出
func ConfigureLogger(l *logger.Logger, cfg config.LogConfig) error {
	if cfg.Level != "" {
		l.SetLevel(logger.ParseLevel(cfg.Level))
	}
	l.SetRotation(logger.Rotation{
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	})
	if err := l.SetFile(cfg.File != "", cfg.File); err != nil {
		return fmt.Errorf("设置日志文件失败: %w", err)
	}
	return nil
}

// Open 创建会话，log 为 nil 时使用默认 logger
func Open(cfg *config.Config, log *logger.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Default()
	}
	if err := ConfigureLogger(log, cfg.Log); err != nil {
		return nil, err
	}

	zl := log.Zap()
	procs := process.New(zl)
	sys := ax.New(native.New(zl), input.New(zl), procs, Options(cfg, zl)...)

	if cfg.AX.MessagingTimeout > 0 {
		if err := sys.SetSystemWideTimeout(cfg.AX.MessagingTimeout); err != nil {
			zl.Warn("设置全局消息超时失败", zap.Float64("seconds", cfg.AX.MessagingTimeout), zap.Error(err))
		}
	}

	zl.Debug("会话已创建", zap.Bool("trusted", sys.IsAccessibilityEnabled()))
	return &Session{System: sys, Config: cfg, Log: log, Processes: procs}, nil
}

// Close 刷新并关闭日志
func (s *Session) Close() error {
	return s.Log.Close()
}
