package ax

import (
	"strings"
	"unicode/utf8"
)

// 修饰键，取值与输入服务的按键名一致
const (
	ModShift   = "shift"
	ModControl = "ctrl"
	ModOption  = "alt"
	ModCommand = "cmd"
)

var modifierAliases = map[string]string{
	"shift":   ModShift,
	"ctrl":    ModControl,
	"control": ModControl,
	"alt":     ModOption,
	"option":  ModOption,
	"cmd":     ModCommand,
	"command": ModCommand,
}

// NormalizeModifier 将修饰键别名转换为标准名
func NormalizeModifier(mod string) (string, bool) {
	m, ok := modifierAliases[strings.ToLower(mod)]
	return m, ok
}

// KeyStroke 字符对应的物理按键
type KeyStroke struct {
	Key   string
	Shift bool
}

// Layout 键盘布局: 字符或按键名到物理按键的映射
type Layout map[string]KeyStroke

// Lookup 查找按键；单个字符按字符查找，多字符按按键名 (不区分大小写) 查找
func (l Layout) Lookup(key string) (KeyStroke, bool) {
	if utf8.RuneCountInString(key) == 1 {
		ks, ok := l[key]
		return ks, ok
	}
	ks, ok := l[strings.ToLower(key)]
	return ks, ok
}

// USLayout 美式键盘布局
func USLayout() Layout {
	l := Layout{}
	for c := 'a'; c <= 'z'; c++ {
		l[string(c)] = KeyStroke{Key: string(c)}
		l[strings.ToUpper(string(c))] = KeyStroke{Key: string(c), Shift: true}
	}
	for c := '0'; c <= '9'; c++ {
		l[string(c)] = KeyStroke{Key: string(c)}
	}
	for _, c := range "`-=[]\\;',./" {
		l[string(c)] = KeyStroke{Key: string(c)}
	}

	shifted := map[string]string{
		"~": "`", "!": "1", "@": "2", "#": "3", "$": "4", "%": "5",
		"^": "6", "&": "7", "*": "8", "(": "9", ")": "0", "_": "-",
		"+": "=", "{": "[", "}": "]", "|": "\\", ":": ";", "\"": "'",
		"<": ",", ">": ".", "?": "/",
	}
	for c, base := range shifted {
		l[c] = KeyStroke{Key: base, Shift: true}
	}

	named := map[string]string{
		" ": "space", "\n": "enter", "\r": "enter", "\t": "tab",
		"space": "space", "enter": "enter", "return": "enter", "tab": "tab",
		"backspace": "backspace", "delete": "delete", "esc": "esc", "escape": "esc",
		"up": "up", "down": "down", "left": "left", "right": "right",
		"home": "home", "end": "end", "pageup": "pageup", "pagedown": "pagedown",
		"capslock": "capslock",
		"f1": "f1", "f2": "f2", "f3": "f3", "f4": "f4", "f5": "f5", "f6": "f6",
		"f7": "f7", "f8": "f8", "f9": "f9", "f10": "f10", "f11": "f11", "f12": "f12",
	}
	for k, v := range named {
		l[k] = KeyStroke{Key: v}
	}
	return l
}
