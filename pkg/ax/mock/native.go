package mock

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// Performed 一次已执行的动作
type Performed struct {
	Node   *Node
	Action string
}

type hit struct {
	rect ax.Rect
	node *Node
}

type registration struct {
	node         *Node
	notification string
}

type observer struct {
	pid  int
	cb   ax.ObserverCallback
	loop *Loop
	regs map[registration]string
}

// Native 内存中的原生无障碍服务
type Native struct {
	mu           sync.Mutex
	apps         map[int]*Node
	system       *Node
	trusted      bool
	prompts      int
	observerCode ax.Code
	observers    []*observer
	performed    []Performed
	removed      int
	released     int
	hits         []hit
	attached     chan struct{}
}

var _ ax.Native = (*Native)(nil)

// New 创建原生服务，默认已授权
func New() *Native {
	return &Native{
		apps:     map[int]*Node{},
		system:   NewNode("AXSystemWide"),
		trusted:  true,
		attached: make(chan struct{}, 16),
	}
}

// AddApp 注册应用节点，整棵树的 PID 设为 pid
func (n *Native) AddApp(pid int, app *Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	app.setPID(pid)
	n.apps[pid] = app
	return app
}

// System 返回系统级节点
func (n *Native) System() *Node {
	return n.system
}

// SetTrusted 设置授权状态
func (n *Native) SetTrusted(trusted bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.trusted = trusted
}

// Prompts 返回请求授权弹窗的次数
func (n *Native) Prompts() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.prompts
}

// PlaceAt 让 ElementAtPosition 在 rect 内返回 node，后放置的优先
func (n *Native) PlaceAt(rect ax.Rect, node *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hits = append(n.hits, hit{rect: rect, node: node})
}

// FailObservers 让 CreateObserver 返回错误码
func (n *Native) FailObservers(code ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observerCode = code
}

// Performed 返回已执行的动作
func (n *Native) Performed() []Performed {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.performed)
}

// Removed 返回 RemoveNotification 的调用次数
func (n *Native) Removed() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.removed
}

// Released 返回已释放的观察者数量
func (n *Native) Released() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.released
}

// Observers 返回存活的观察者数量
func (n *Native) Observers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers)
}

// Attached 每次观察者挂载到运行循环后收到一个信号
func (n *Native) Attached() <-chan struct{} {
	return n.attached
}

// Post 发送通知，返回收到通知的观察者数量
//
// 注册在 node 或其祖先上的同名通知都会收到，回调在观察者的运行循环上执行
func (n *Native) Post(node *Node, notification string) int {
	type delivery struct {
		cb   ax.ObserverCallback
		loop *Loop
		ctx  string
	}

	n.mu.Lock()
	var out []delivery
	for _, o := range n.observers {
		if o.loop == nil {
			continue
		}
		for reg, ctx := range o.regs {
			if reg.notification == notification && reg.node.isAncestorOf(node) {
				out = append(out, delivery{cb: o.cb, loop: o.loop, ctx: ctx})
			}
		}
	}
	n.mu.Unlock()

	delivered := 0
	for _, d := range out {
		if d.loop.Do(func() { d.cb(node, notification, d.ctx) }) {
			delivered++
		}
	}
	return delivered
}

func asNode(ref ax.Ref) *Node {
	node, _ := ref.(*Node)
	return node
}

// ==================== ax.Native ====================

func (n *Native) CreateApplication(pid int) ax.Ref {
	n.mu.Lock()
	defer n.mu.Unlock()
	if app, ok := n.apps[pid]; ok {
		return app
	}
	// 不存在的进程: 句柄有效，但任何查询都无法完成
	dead := NewNode("")
	dead.setPID(pid)
	dead.Fail(OpNames, "", ax.CodeCannotComplete)
	n.apps[pid] = dead
	return dead
}

func (n *Native) CreateSystemWide() ax.Ref {
	return n.system
}

func (n *Native) AttributeNames(ref ax.Ref) ([]string, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return nil, ax.CodeInvalidUIElement
	}
	if code := node.code(OpNames, ""); code != ax.CodeSuccess {
		return nil, code
	}
	return slices.Clone(node.names), ax.CodeSuccess
}

func (n *Native) AttributeValue(ref ax.Ref, name string) (any, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return nil, ax.CodeInvalidUIElement
	}
	if code := node.code(OpGet, name); code != ax.CodeSuccess {
		return nil, code
	}
	if !slices.Contains(node.names, name) {
		return nil, ax.CodeAttributeUnsupported
	}
	switch name {
	case "AXChildren":
		items := make([]any, len(node.children))
		for i, c := range node.children {
			items[i] = ax.RawElement{Ref: c}
		}
		return items, ax.CodeSuccess
	case "AXParent":
		if node.parent == nil {
			return nil, ax.CodeNoValue
		}
		return ax.RawElement{Ref: node.parent}, ax.CodeSuccess
	}
	return node.attrs[name], ax.CodeSuccess
}

func (n *Native) IsAttributeSettable(ref ax.Ref, name string) (bool, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return false, ax.CodeInvalidUIElement
	}
	if code := node.code(OpSettable, name); code != ax.CodeSuccess {
		return false, code
	}
	return node.settable[name], ax.CodeSuccess
}

func (n *Native) SetAttributeValue(ref ax.Ref, name string, value any) ax.Code {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return ax.CodeInvalidUIElement
	}
	if code := node.code(OpSet, name); code != ax.CodeSuccess {
		return code
	}
	node.attrs[name] = value
	node.addName(name)
	return ax.CodeSuccess
}

func (n *Native) ActionNames(ref ax.Ref) ([]string, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return nil, ax.CodeInvalidUIElement
	}
	if code := node.code(OpNames, ""); code != ax.CodeSuccess {
		return nil, code
	}
	return slices.Clone(node.actions), ax.CodeSuccess
}

func (n *Native) PerformAction(ref ax.Ref, action string) ax.Code {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return ax.CodeInvalidUIElement
	}
	if code := node.code(OpAction, action); code != ax.CodeSuccess {
		return code
	}
	if !slices.Contains(node.actions, action) {
		return ax.CodeActionUnsupported
	}
	n.performed = append(n.performed, Performed{Node: node, Action: action})
	return ax.CodeSuccess
}

func (n *Native) PID(ref ax.Ref) (int, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return 0, ax.CodeInvalidUIElement
	}
	if code := node.code(OpPID, ""); code != ax.CodeSuccess {
		return 0, code
	}
	return node.pid, ax.CodeSuccess
}

func (n *Native) ElementAtPosition(ref ax.Ref, x, y float64) (ax.Ref, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if asNode(ref) == nil {
		return nil, ax.CodeInvalidUIElement
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return nil, ax.CodeIllegalArgument
	}
	for i := len(n.hits) - 1; i >= 0; i-- {
		r := n.hits[i].rect
		if x >= r.Origin.X && x < r.Origin.X+r.Size.Width &&
			y >= r.Origin.Y && y < r.Origin.Y+r.Size.Height {
			return n.hits[i].node, ax.CodeSuccess
		}
	}
	return nil, ax.CodeNoValue
}

func (n *Native) SetMessagingTimeout(ref ax.Ref, seconds float64) ax.Code {
	n.mu.Lock()
	defer n.mu.Unlock()
	node := asNode(ref)
	if node == nil {
		return ax.CodeIllegalArgument
	}
	node.timeout = seconds
	return ax.CodeSuccess
}

func (n *Native) Equal(a, b ax.Ref) bool {
	na, nb := asNode(a), asNode(b)
	return na != nil && na == nb
}

func (n *Native) CreateObserver(pid int, cb ax.ObserverCallback) (ax.ObserverRef, ax.Code) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.observerCode != ax.CodeSuccess {
		return nil, n.observerCode
	}
	o := &observer{pid: pid, cb: cb, regs: map[registration]string{}}
	n.observers = append(n.observers, o)
	return o, ax.CodeSuccess
}

func (n *Native) AddNotification(obs ax.ObserverRef, ref ax.Ref, notification string, refcon string) ax.Code {
	n.mu.Lock()
	defer n.mu.Unlock()
	o, ok := obs.(*observer)
	node := asNode(ref)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	if node == nil {
		return ax.CodeInvalidUIElement
	}
	reg := registration{node: node, notification: notification}
	if _, dup := o.regs[reg]; dup {
		return ax.CodeNotificationAlreadyRegistered
	}
	o.regs[reg] = refcon
	return ax.CodeSuccess
}

func (n *Native) RemoveNotification(obs ax.ObserverRef, ref ax.Ref, notification string) ax.Code {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removed++
	o, ok := obs.(*observer)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	reg := registration{node: asNode(ref), notification: notification}
	if _, found := o.regs[reg]; !found {
		return ax.CodeNotificationNotRegistered
	}
	delete(o.regs, reg)
	return ax.CodeSuccess
}

func (n *Native) AttachObserver(obs ax.ObserverRef, loop ax.RunLoop) ax.Code {
	n.mu.Lock()
	o, ok := obs.(*observer)
	l, isLoop := loop.(*Loop)
	if !ok {
		n.mu.Unlock()
		return ax.CodeInvalidUIElementObserver
	}
	if !isLoop {
		n.mu.Unlock()
		return ax.CodeIllegalArgument
	}
	o.loop = l
	n.mu.Unlock()

	select {
	case n.attached <- struct{}{}:
	default:
	}
	return ax.CodeSuccess
}

func (n *Native) DetachObserver(obs ax.ObserverRef, _ ax.RunLoop) ax.Code {
	n.mu.Lock()
	defer n.mu.Unlock()
	o, ok := obs.(*observer)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	o.loop = nil
	return ax.CodeSuccess
}

func (n *Native) ReleaseObserver(obs ax.ObserverRef) {
	n.mu.Lock()
	defer n.mu.Unlock()
	o, _ := obs.(*observer)
	n.observers = slices.DeleteFunc(n.observers, func(x *observer) bool { return x == o })
	n.released++
}

func (n *Native) NewRunLoop() ax.RunLoop {
	return NewLoop()
}

func (n *Native) IsTrusted(prompt bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if prompt {
		n.prompts++
	}
	return n.trusted
}

// ==================== Loop ====================

// Loop 基于通道的运行循环
type Loop struct {
	queue    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
}

var _ ax.RunLoop = (*Loop)(nil)

// NewLoop 创建运行循环
func NewLoop() *Loop {
	return &Loop{
		queue:   make(chan func(), 64),
		stopped: make(chan struct{}),
	}
}

// Run 在调用线程上执行投递的函数，直到 Stop 或 ctx 结束
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-l.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Stop 停止运行循环，可重复调用
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// AfterFunc 在 d 之后于定时器协程上调用 fn
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Do 投递函数到运行循环，循环已停止时丢弃并返回 false
func (l *Loop) Do(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.stopped:
		return false
	}
}
