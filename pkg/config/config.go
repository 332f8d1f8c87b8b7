package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// AXConfig 无障碍相关配置
type AXConfig struct {
	// MessagingTimeout 全局消息超时 (秒)，0 表示使用系统默认
	MessagingTimeout float64       `yaml:"messaging_timeout"`
	WaitTimeout      time.Duration `yaml:"wait_timeout"`
	PopUpDelay       time.Duration `yaml:"popup_delay"`
}

// InputConfig 输入相关配置
type InputConfig struct {
	Interval     time.Duration `yaml:"interval"`
	DragInterval time.Duration `yaml:"drag_interval"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config 完整配置
type Config struct {
	AX    AXConfig    `yaml:"ax"`
	Input InputConfig `yaml:"input"`
	Log   LogConfig   `yaml:"log"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		AX: AXConfig{
			WaitTimeout: 10 * time.Second,
			PopUpDelay:  500 * time.Millisecond,
		},
		Input: InputConfig{
			DragInterval: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// ==================== 环境变量 ====================

const (
	EnvWaitTimeout = "ZOEYAX_WAIT_TIMEOUT"
	EnvLogLevel    = "ZOEYAX_LOG_LEVEL"
	EnvLogFile     = "ZOEYAX_LOG_FILE"
)

// ApplyEnv 用环境变量覆盖配置
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvWaitTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("解析 %s 失败: %w", EnvWaitTimeout, err)
		}
		c.AX.WaitTimeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	return nil
}

// ==================== 配置管理器 ====================

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".zoeyax"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.yaml"),
	}
}

// NewManagerWithFile 使用指定文件创建配置管理器
func NewManagerWithFile(path string) *Manager {
	return &Manager{
		configDir:  filepath.Dir(path),
		configFile: path,
	}
}

// Load 加载配置，文件不存在时返回默认配置
//
// 文件中缺失的字段保留默认值
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.configFile)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	return config, nil
}

// Save 保存配置
func (m *Manager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*Config, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(config *Config) error {
	return defaultManager.Save(config)
}

// Clear 使用默认管理器清除配置
func Clear() error {
	return defaultManager.Clear()
}
