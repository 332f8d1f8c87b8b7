//go:build !darwin

package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// 其他平台没有点击次数字段，多击由连续的按下/释放组成

func postMouseButton(button ax.Button, p ax.Point, down bool, _ int) error {
	if button != ax.ButtonLeft && button != ax.ButtonRight {
		return fmt.Errorf("未知鼠标按键: %s", button)
	}
	robotgo.Move(round(p.X), round(p.Y))
	state := "up"
	if down {
		state = "down"
	}
	return robotgo.Toggle(string(button), state)
}

func postMouseDragged(_ ax.Button, p ax.Point) error {
	robotgo.Move(round(p.X), round(p.Y))
	return nil
}
