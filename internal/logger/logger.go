// Package logger 提供统一的日志工具
//
// 基于 zap 实现，文件输出通过 lumberjack 轮转。
// 环境变量 ENV=production 时控制台输出 JSON，LOG_LEVEL 设置初始级别。
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation 日志文件轮转配置
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultRotation 默认轮转配置
func DefaultRotation() Rotation {
	return Rotation{MaxSizeMB: 20, MaxBackups: 3, MaxAgeDays: 14}
}

// ParseLevel 解析日志级别字符串，无法识别时返回 INFO
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "warning":
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Logger 日志记录器
type Logger struct {
	mu         sync.Mutex
	level      zap.AtomicLevel
	production bool
	console    bool
	rotation   Rotation
	fileOut    *lumberjack.Logger
	zl         *zap.Logger
}

// 全局默认 logger
var defaultLogger = New()

// New 创建新的 Logger 实例
func New() *Logger {
	l := &Logger{
		level:      zap.NewAtomicLevelAt(ParseLevel(getEnv("LOG_LEVEL", "info"))),
		production: os.Getenv("ENV") == "production",
		console:    true,
		rotation:   DefaultRotation(),
	}
	l.rebuild()
	return l
}

// Default 获取默认 logger
func Default() *Logger {
	return defaultLogger
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// Level 当前日志级别
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// SetConsole 设置是否输出到控制台
func (l *Logger) SetConsole(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = enabled
	l.rebuild()
}

// SetRotation 设置日志文件轮转，下次 SetFile 时生效
func (l *Logger) SetRotation(r Rotation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotation = r
}

// SetFile 设置是否输出到文件
func (l *Logger) SetFile(enabled bool, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 关闭旧文件
	if l.fileOut != nil {
		_ = l.fileOut.Close()
		l.fileOut = nil
	}

	if enabled && path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("无法创建日志目录: %w", err)
		}
		l.fileOut = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    l.rotation.MaxSizeMB,
			MaxBackups: l.rotation.MaxBackups,
			MaxAge:     l.rotation.MaxAgeDays,
		}
	}

	l.rebuild()
	return nil
}

func (l *Logger) rebuild() {
	var cores []zapcore.Core

	if l.console {
		var enc zapcore.Encoder
		if l.production {
			enc = zapcore.NewJSONEncoder(productionEncoderConfig())
		} else {
			enc = zapcore.NewConsoleEncoder(developmentEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), l.level))
	}
	if l.fileOut != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(productionEncoderConfig()),
			zapcore.AddSync(l.fileOut),
			l.level,
		))
	}

	if len(cores) == 0 {
		l.zl = zap.NewNop()
		return
	}
	l.zl = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func developmentEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func productionEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

// Zap 返回底层 zap logger，SetFile/SetConsole 后需要重新获取
func (l *Logger) Zap() *zap.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.Zap().Debug(msg, fields...) }

// Info 输出 INFO 级别日志
func (l *Logger) Info(msg string, fields ...zap.Field) { l.Zap().Info(msg, fields...) }

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.Zap().Warn(msg, fields...) }

// Error 输出 ERROR 级别日志
func (l *Logger) Error(msg string, fields ...zap.Field) { l.Zap().Error(msg, fields...) }

// With 创建带有预设字段的 logger
func (l *Logger) With(fields ...zap.Field) *zap.Logger { return l.Zap().With(fields...) }

// Named 创建命名子 logger
func (l *Logger) Named(name string) *zap.Logger { return l.Zap().Named(name) }

// LogEvent 记录带分类的事件日志
func (l *Logger) LogEvent(category string, ok bool, elapsed time.Duration, detail string) {
	fields := []zap.Field{
		zap.String("category", category),
		zap.Duration("elapsed", elapsed),
	}
	if ok {
		l.Info(detail, fields...)
	} else {
		l.Error(detail, fields...)
	}
}

// Sync 刷新日志缓冲区
func (l *Logger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileOut == nil {
		return nil
	}
	return l.zl.Sync()
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		_ = l.zl.Sync()
		err := l.fileOut.Close()
		l.fileOut = nil
		l.rebuild()
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 包级别便捷函数
func Debug(msg string, fields ...zap.Field) { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { defaultLogger.Error(msg, fields...) }
func LogEvent(category string, ok bool, elapsed time.Duration, detail string) {
	defaultLogger.LogEvent(category, ok, elapsed, detail)
}
