//go:build darwin

package input

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

// postMouseEvent 投递鼠标事件；clickState 大于 0 时写入点击次数
static int postMouseEvent(int type, int button, double x, double y, int clickState) {
    CGEventRef event = CGEventCreateMouseEvent(NULL, (CGEventType)type, CGPointMake(x, y), (CGMouseButton)button);
    if (event == NULL) {
        return 0;
    }
    if (clickState > 0) {
        CGEventSetIntegerValueField(event, kCGMouseEventClickState, clickState);
    }
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
    return 1;
}
*/
import "C"

import (
	"fmt"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

type mouseEvents struct {
	button C.int
	down   C.int
	up     C.int
	drag   C.int
}

var buttons = map[ax.Button]mouseEvents{
	ax.ButtonLeft:  {C.kCGMouseButtonLeft, C.kCGEventLeftMouseDown, C.kCGEventLeftMouseUp, C.kCGEventLeftMouseDragged},
	ax.ButtonRight: {C.kCGMouseButtonRight, C.kCGEventRightMouseDown, C.kCGEventRightMouseUp, C.kCGEventRightMouseDragged},
}

func post(typ, button C.int, p ax.Point, clickState int) error {
	if C.postMouseEvent(typ, button, C.double(p.X), C.double(p.Y), C.int(clickState)) == 0 {
		return fmt.Errorf("无法创建鼠标事件")
	}
	return nil
}

func postMouseButton(button ax.Button, p ax.Point, down bool, clickCount int) error {
	ev, ok := buttons[button]
	if !ok {
		return fmt.Errorf("未知鼠标按键: %s", button)
	}
	typ := ev.up
	if down {
		typ = ev.down
	}
	return post(typ, ev.button, p, clickCount)
}

func postMouseDragged(button ax.Button, p ax.Point) error {
	ev, ok := buttons[button]
	if !ok {
		return fmt.Errorf("未知鼠标按键: %s", button)
	}
	return post(ev.drag, ev.button, p, 0)
}
