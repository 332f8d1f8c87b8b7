// Package mock 提供内存中的无障碍服务、输入服务和进程服务，用于在没有桌面环境时测试
package mock

import (
	"slices"
	"strings"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// Op 可注入错误码的原生操作
type Op int

const (
	OpNames Op = iota
	OpGet
	OpSettable
	OpSet
	OpAction
	OpPID
)

type opKey struct {
	op   Op
	name string
}

// Node 内存中的无障碍元素
//
// 属性按加入顺序返回，AXChildren 和 AXParent 由树结构生成
type Node struct {
	pid      int
	names    []string
	attrs    map[string]any
	settable map[string]bool
	codes    map[opKey]ax.Code
	actions  []string
	children []*Node
	parent   *Node
	timeout  float64
}

// NewNode 创建节点，role 不为空时设置 AXRole
func NewNode(role string) *Node {
	n := &Node{
		attrs:    map[string]any{},
		settable: map[string]bool{},
		codes:    map[opKey]ax.Code{},
	}
	if role != "" {
		n.Set("AXRole", role)
	}
	return n
}

func (n *Node) addName(name string) {
	if !slices.Contains(n.names, name) {
		n.names = append(n.names, name)
	}
}

// Set 设置原生属性值；*Node 和 []*Node 会转换为元素引用
func (n *Node) Set(name string, v any) *Node {
	switch x := v.(type) {
	case *Node:
		v = ax.RawElement{Ref: x}
	case []*Node:
		items := make([]any, len(x))
		for i, node := range x {
			items[i] = ax.RawElement{Ref: node}
		}
		v = items
	}
	n.attrs[name] = v
	n.addName(name)
	return n
}

// Title 设置 AXTitle
func (n *Node) Title(title string) *Node {
	return n.Set("AXTitle", title)
}

// Settable 将属性标记为可设置
func (n *Node) Settable(names ...string) *Node {
	for _, name := range names {
		n.settable[name] = true
	}
	return n
}

// Actions 添加动作，不带 AX 前缀时自动补上
func (n *Node) Actions(names ...string) *Node {
	for _, name := range names {
		if !strings.HasPrefix(name, "AX") {
			name = "AX" + name
		}
		if !slices.Contains(n.actions, name) {
			n.actions = append(n.actions, name)
		}
	}
	return n
}

// Fail 让指定操作返回错误码；OpGet 会同时把 name 加入属性列表
func (n *Node) Fail(op Op, name string, code ax.Code) *Node {
	n.codes[opKey{op, name}] = code
	if op == OpGet {
		n.addName(name)
	}
	return n
}

// Add 添加子节点，子节点继承 PID
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		c.addName("AXParent")
		c.setPID(n.pid)
		n.children = append(n.children, c)
	}
	if len(children) > 0 {
		n.addName("AXChildren")
	}
	return n
}

// Remove 移除子节点
func (n *Node) Remove(child *Node) {
	n.children = slices.DeleteFunc(n.children, func(c *Node) bool { return c == child })
	child.parent = nil
}

// Children 返回子节点
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Value 返回原生属性值
func (n *Node) Value(name string) any {
	return n.attrs[name]
}

// PID 返回节点所属进程
func (n *Node) PID() int {
	return n.pid
}

// Timeout 返回最近一次设置的消息超时
func (n *Node) Timeout() float64 {
	return n.timeout
}

func (n *Node) setPID(pid int) {
	n.pid = pid
	for _, c := range n.children {
		c.setPID(pid)
	}
}

func (n *Node) code(op Op, name string) ax.Code {
	return n.codes[opKey{op, name}]
}

func (n *Node) isAncestorOf(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}
