// Package permissions 提供辅助功能授权的检查与引导
package permissions

import (
	"fmt"
	"os/exec"
	"strings"
)

// Checker 辅助功能授权检查，由 *ax.System 实现
type Checker interface {
	IsAccessibilityEnabled() bool
	RequestAccessibility() bool
}

// Status 权限状态
type Status struct {
	Accessibility bool `json:"accessibility"`
	Prompted      bool `json:"prompted"`
}

// Check 检查辅助功能权限，prompt 为 true 时触发系统弹窗
func Check(c Checker, prompt bool) *Status {
	if prompt {
		return &Status{Accessibility: c.RequestAccessibility(), Prompted: true}
	}
	return &Status{Accessibility: c.IsAccessibilityEnabled()}
}

// Instructions 获取权限说明，已授权时返回空串
func Instructions(status *Status) string {
	if status.Accessibility {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权辅助功能权限才能读取和控制其他应用的界面:\n\n")
	b.WriteString("  系统设置 > 隐私与安全性 > 辅助功能\n\n")
	if status.Prompted {
		b.WriteString("已弹出系统授权窗口，")
	}
	b.WriteString("授权后需要重启终端或应用才能生效。")
	return b.String()
}

// ResetAccessibility 重置指定 bundle id 的辅助功能授权
func ResetAccessibility(bundleID string) error {
	if bundleID == "" {
		return fmt.Errorf("bundle id 不能为空")
	}
	out, err := exec.Command("tccutil", "reset", "Accessibility", bundleID).CombinedOutput()
	if err != nil {
		return fmt.Errorf("重置辅助功能权限失败: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
