//go:build !darwin

package permissions

// OpenAccessibilitySettings 打开辅助功能设置页面，非 macOS 系统无此页面
func OpenAccessibilitySettings() {}
