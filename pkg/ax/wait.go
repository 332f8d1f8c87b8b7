package ax

import (
	"context"
	"fmt"
	"time"
)

// 常用通知
const (
	NotificationCreated                 = "AXCreated"
	NotificationWindowCreated           = "AXWindowCreated"
	NotificationUIElementDestroyed      = "AXUIElementDestroyed"
	NotificationSheetCreated            = "AXSheetCreated"
	NotificationValueChanged            = "AXValueChanged"
	NotificationFocusedUIElementChanged = "AXFocusedUIElementChanged"
	NotificationFocusedWindowChanged    = "AXFocusedWindowChanged"
	NotificationApplicationActivated    = "AXApplicationActivated"
	NotificationTitleChanged            = "AXTitleChanged"
	NotificationMenuOpened              = "AXMenuOpened"
)

// WaitFor 等待通知，通知携带的元素需要满足 criteria；criteria 为空时接受第一次通知
//
// timeout 为 0 时使用默认超时；超时返回 (nil, nil)
func (e *Element) WaitFor(ctx context.Context, notification string, timeout time.Duration, criteria Criteria) (*Element, error) {
	return e.Observer().Wait(ctx, notification, timeout, MatchFilter(criteria))
}

// WaitForCreation 等待元素创建
func (e *Element) WaitForCreation(ctx context.Context, timeout time.Duration, criteria Criteria) (*Element, error) {
	return e.WaitFor(ctx, NotificationCreated, timeout, criteria)
}

// WaitForWindowToAppear 等待指定标题的窗口出现，title 支持通配符
func (e *Element) WaitForWindowToAppear(ctx context.Context, title string, timeout time.Duration) (*Element, error) {
	return e.WaitFor(ctx, NotificationWindowCreated, timeout, Criteria{"AXTitle": title})
}

// WaitForWindowToDisappear 等待指定标题的窗口消失
//
// 销毁通知绑定在具体元素上，需要先找到该窗口；找不到时返回 ErrNotFound
func (e *Element) WaitForWindowToDisappear(ctx context.Context, title string, timeout time.Duration) (bool, error) {
	win := e.FindFirstR(Criteria{"AXRole": RoleWindow, "AXTitle": title})
	if win == nil {
		return false, fmt.Errorf("%w: 窗口 %q", ErrNotFound, title)
	}
	gone, err := win.Observer().Wait(ctx, NotificationUIElementDestroyed, timeout, nil)
	if err != nil {
		return false, err
	}
	return gone != nil, nil
}

// WaitForSheetToAppear 等待 sheet 出现
func (e *Element) WaitForSheetToAppear(ctx context.Context, timeout time.Duration) (*Element, error) {
	return e.WaitFor(ctx, NotificationSheetCreated, timeout, nil)
}

// WaitForValueToChange 等待 AXValueChanged，返回值发生变化的元素
//
// 对菜单项等标题会变化的元素无效，在应用级元素上注册效果最好
func (e *Element) WaitForValueToChange(ctx context.Context, timeout time.Duration) (*Element, error) {
	return e.WaitFor(ctx, NotificationValueChanged, timeout, nil)
}

// WaitForFocusToChange 等待焦点移到与 next 角色和位置相同的元素上
func (e *Element) WaitForFocusToChange(ctx context.Context, next *Element, timeout time.Duration) (*Element, error) {
	role, err := next.GetAttribute("AXRole")
	if err != nil {
		return nil, err
	}
	pos, err := next.GetAttribute("AXPosition")
	if err != nil {
		return nil, err
	}
	return e.WaitFor(ctx, NotificationFocusedUIElementChanged, timeout, Criteria{
		"AXRole":     role,
		"AXPosition": pos,
	})
}

// WaitForFocusedWindowToChange 等待焦点窗口切换到指定标题的窗口
func (e *Element) WaitForFocusedWindowToChange(ctx context.Context, title string, timeout time.Duration) (*Element, error) {
	return e.WaitFor(ctx, NotificationFocusedWindowChanged, timeout, Criteria{"AXTitle": title})
}

// WaitForFocusToMatchCriteria 等待焦点移到满足 criteria 的元素上
func (e *Element) WaitForFocusToMatchCriteria(ctx context.Context, timeout time.Duration, criteria Criteria) (*Element, error) {
	return e.WaitFor(ctx, NotificationFocusedUIElementChanged, timeout, criteria)
}

// WaitForApplicationToActivate 等待应用被激活
func (e *Element) WaitForApplicationToActivate(ctx context.Context, timeout time.Duration) (*Element, error) {
	return e.WaitFor(ctx, NotificationApplicationActivated, timeout, nil)
}
