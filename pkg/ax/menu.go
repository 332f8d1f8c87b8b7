package ax

import (
	"fmt"
	"time"
)

// MenuItem 按路径返回应用菜单栏中的菜单项
//
// 路径的每一步可以是标题 (支持通配符) 或下标，例如
// MenuItem("File", "New")、MenuItem(1, 0)、MenuItem(1, "About*")
func (e *Element) MenuItem(path ...any) (*Element, error) {
	app, err := e.Application()
	if err != nil {
		return nil, err
	}
	v, err := app.GetAttribute("AXMenuBar")
	if err != nil {
		return nil, fmt.Errorf("获取菜单栏失败: %w", err)
	}
	bar, ok := v.(*Element)
	if !ok || bar.IsNull() {
		return nil, fmt.Errorf("%w: 应用没有菜单栏", ErrNotFound)
	}
	if err := e.Activate(); err != nil {
		return nil, err
	}
	return bar.traverseMenu(path)
}

// PopUpItem 按下弹出按钮，等待菜单展开后按路径返回菜单项
func (e *Element) PopUpItem(path ...any) (*Element, error) {
	if err := e.PerformAction("Press"); err != nil {
		return nil, err
	}
	time.Sleep(e.sys.opts.PopUpDelay)
	return e.traverseMenu(path)
}

func (e *Element) traverseMenu(path []any) (*Element, error) {
	cur := e
	for _, step := range path {
		children, err := cur.Children()
		if err != nil {
			return nil, err
		}
		// 菜单栏项和弹出按钮下面挂着一个 AXMenu，先进入菜单
		if len(children) > 0 && children[0].Role() == RoleMenu {
			cur = children[0]
			if children, err = cur.Children(); err != nil {
				return nil, err
			}
		}

		switch s := step.(type) {
		case int:
			if s < 0 || s >= len(children) {
				return nil, fmt.Errorf("%w: 菜单下标 %d 越界 (共 %d 项)", ErrNotFound, s, len(children))
			}
			cur = children[s]
		case string:
			role := "AXMenuBarItem"
			if cur.Role() == RoleMenu {
				role = RoleMenuItem
			}
			next := cur.FindFirst(Criteria{"AXRole": role, "AXTitle": s})
			if next == nil {
				return nil, fmt.Errorf("%w: 菜单项 %q", ErrNotFound, s)
			}
			cur = next
		default:
			return nil, fmt.Errorf("%w: 菜单路径只能是字符串或整数, 实际 %T", ErrInvalidArguments, step)
		}
	}
	return cur, nil
}
