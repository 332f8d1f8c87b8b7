package ax

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// actionPrefix 动作名前缀，对外暴露时去掉
	actionPrefix = "AX"
	// descriptionLimit String() 描述的最大长度
	descriptionLimit = 40
	// maxParentDepth 向上查找应用元素的最大层数
	maxParentDepth = 256
)

// Action 元素动作，调用时先激活所属应用再执行
type Action func() error

// Element 无障碍元素
//
// Element 只是原生句柄的轻量视图，可随时重新创建；两个 Element
// 指向同一原生对象时 Equal 返回 true
type Element struct {
	sys   *System
	ref   Ref
	input *Input
}

// Ref 返回原生句柄
func (e *Element) Ref() Ref {
	return e.ref
}

// System 返回元素所属的 System
func (e *Element) System() *System {
	return e.sys
}

// IsNull 是否为空元素
func (e *Element) IsNull() bool {
	return e == nil || e.ref == nil
}

// ==================== 属性 ====================

// AttributeNames 查询当前属性名列表
func (e *Element) AttributeNames() ([]string, error) {
	if e.IsNull() {
		return nil, nil
	}
	names, code := e.sys.native.AttributeNames(e.ref)
	if err := CheckError(code, "获取属性列表失败"); err != nil {
		return nil, err
	}
	return names, nil
}

// HasAttribute 元素当前是否有该属性，查询失败视为没有
func (e *Element) HasAttribute(name string) bool {
	names, err := e.AttributeNames()
	if err != nil {
		return false
	}
	return slices.Contains(names, name)
}

// GetAttribute 读取属性值
//
// 属性名不在当前属性集合中时返回 ErrUndefinedAttribute (Unsupported 类别)；
// AXChildren 没有值时返回空列表
func (e *Element) GetAttribute(name string) (any, error) {
	names, err := e.AttributeNames()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, undefinedAttribute(name)
	}
	return e.attributeValue(name)
}

// attributeValue 不检查属性名直接读取
func (e *Element) attributeValue(name string) (any, error) {
	raw, code := e.sys.native.AttributeValue(e.ref, name)
	if code == CodeNoValue && name == "AXChildren" {
		return []any{}, nil
	}
	if err := checkNamed(code, "获取属性值失败", name); err != nil {
		return nil, err
	}
	v, err := e.sys.Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("转换属性 %s 失败: %w", name, err)
	}
	return v, nil
}

// SetAttribute 写入属性值
//
// 属性不可设置时返回 Unsupported；原生服务报告 IllegalArgument 时静默忽略
func (e *Element) SetAttribute(name string, value any) error {
	names, err := e.AttributeNames()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return undefinedAttribute(name)
	}

	settable, code := e.sys.native.IsAttributeSettable(e.ref, name)
	if code == CodeIllegalArgument {
		e.sys.log.Debug("忽略非法参数", zap.String("attribute", name))
		return nil
	}
	if err := checkNamed(code, "查询属性是否可设置失败", name); err != nil {
		return err
	}
	if !settable {
		return &Error{Kind: KindUnsupported, Message: "属性不可设置", Name: name}
	}

	code = e.sys.native.SetAttributeValue(e.ref, name, unconvert(value))
	if code == CodeIllegalArgument {
		e.sys.log.Debug("忽略非法参数", zap.String("attribute", name))
		return nil
	}
	return checkNamed(code, "设置属性值失败", name)
}

// SetString 以字符串写入属性
func (e *Element) SetString(name string, value any) error {
	return e.SetAttribute(name, fmt.Sprint(value))
}

// stringAttr 读取字符串属性，失败返回空串
func (e *Element) stringAttr(name string) string {
	if !e.HasAttribute(name) {
		return ""
	}
	v, err := e.attributeValue(name)
	if err != nil || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Role 返回 AXRole，没有时返回空串
func (e *Element) Role() string {
	return e.stringAttr("AXRole")
}

// Title 返回 AXTitle，没有时返回空串
func (e *Element) Title() string {
	return e.stringAttr("AXTitle")
}

// Children 返回直接子元素
func (e *Element) Children() ([]*Element, error) {
	if !e.HasAttribute("AXChildren") {
		return nil, nil
	}
	v, err := e.attributeValue("AXChildren")
	if err != nil {
		return nil, err
	}
	return toElements(v), nil
}

// Parent 返回父元素，没有父元素时返回 nil
func (e *Element) Parent() (*Element, error) {
	if !e.HasAttribute("AXParent") {
		return nil, nil
	}
	v, err := e.attributeValue("AXParent")
	if err != nil {
		return nil, err
	}
	parent, _ := v.(*Element)
	if parent.IsNull() {
		return nil, nil
	}
	return parent, nil
}

// Position 返回 AXPosition
func (e *Element) Position() (Point, error) {
	v, err := e.GetAttribute("AXPosition")
	if err != nil {
		return Point{}, err
	}
	p, ok := v.(Point)
	if !ok {
		return Point{}, fmt.Errorf("%w: AXPosition 类型为 %T", ErrConversion, v)
	}
	return p, nil
}

// Size 返回 AXSize
func (e *Element) Size() (Size, error) {
	v, err := e.GetAttribute("AXSize")
	if err != nil {
		return Size{}, err
	}
	s, ok := v.(Size)
	if !ok {
		return Size{}, fmt.Errorf("%w: AXSize 类型为 %T", ErrConversion, v)
	}
	return s, nil
}

func toElements(v any) []*Element {
	items, _ := v.([]any)
	out := make([]*Element, 0, len(items))
	for _, item := range items {
		if el, ok := item.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ==================== 动作 ====================

// ActionNames 查询当前动作名列表 (去掉 AX 前缀)
func (e *Element) ActionNames() ([]string, error) {
	if e.IsNull() {
		return nil, nil
	}
	names, code := e.sys.native.ActionNames(e.ref)
	if err := CheckError(code, "获取动作列表失败"); err != nil {
		return nil, err
	}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.TrimPrefix(name, actionPrefix)
	}
	return out, nil
}

// HasAction 元素当前是否支持该动作，name 可带或不带 AX 前缀
func (e *Element) HasAction(name string) bool {
	names, err := e.ActionNames()
	if err != nil {
		return false
	}
	return slices.Contains(names, strings.TrimPrefix(name, actionPrefix))
}

// PerformAction 执行动作，name 可带或不带 AX 前缀
func (e *Element) PerformAction(name string) error {
	action := actionPrefix + strings.TrimPrefix(name, actionPrefix)
	code := e.sys.native.PerformAction(e.ref, action)
	return checkNamed(code, "执行动作失败", action)
}

// InvokeAction 激活所属应用后执行动作
func (e *Element) InvokeAction(name string) error {
	if !e.HasAction(name) {
		return undefinedAction(name)
	}
	return e.action(name)()
}

func (e *Element) action(name string) Action {
	return func() error {
		if err := e.Activate(); err != nil {
			return err
		}
		return e.PerformAction(name)
	}
}

// Get 动态查找: 先查属性，再查动作；都没有时返回 ErrUndefinedAttribute
//
// 返回动作时值类型为 Action
func (e *Element) Get(name string) (any, error) {
	names, err := e.AttributeNames()
	if err != nil {
		return nil, err
	}
	if slices.Contains(names, name) {
		return e.attributeValue(name)
	}
	if e.HasAction(name) {
		return e.action(name), nil
	}
	return nil, undefinedAttribute(name)
}

// ==================== 进程与应用 ====================

// PID 返回元素所属进程 ID
func (e *Element) PID() (int, error) {
	pid, code := e.sys.native.PID(e.ref)
	if err := CheckError(code, "获取 PID 失败"); err != nil {
		return 0, err
	}
	return pid, nil
}

// BundleID 返回元素所属应用的 bundle id
func (e *Element) BundleID() (string, error) {
	pid, err := e.PID()
	if err != nil {
		return "", err
	}
	procs, err := e.sys.processes()
	if err != nil {
		return "", err
	}
	return procs.BundleID(pid)
}

// Activate 将所属应用切换到前台
func (e *Element) Activate() error {
	pid, err := e.PID()
	if err != nil {
		return err
	}
	procs, err := e.sys.processes()
	if err != nil {
		return err
	}
	if err := procs.Activate(pid); err != nil {
		return fmt.Errorf("激活应用失败: PID=%d: %w", pid, err)
	}
	return nil
}

// Application 沿 AXParent 向上找到顶层应用元素
func (e *Element) Application() (*Element, error) {
	cur := e
	for i := 0; i < maxParentDepth; i++ {
		parent, err := cur.Parent()
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return cur, nil
		}
		cur = parent
	}
	return cur, nil
}

// LocalizedName 返回所属应用的本地化名称
func (e *Element) LocalizedName() (string, error) {
	app, err := e.Application()
	if err != nil {
		return "", err
	}
	v, err := app.GetAttribute("AXTitle")
	if err != nil {
		return "", err
	}
	name, _ := v.(string)
	return name, nil
}

// ElementAtPosition 返回屏幕坐标处的元素
//
// 元素被其他窗口遮挡时返回的是最上层的元素
func (e *Element) ElementAtPosition(p Point) (*Element, error) {
	ref, code := e.sys.native.ElementAtPosition(e.ref, p.X, p.Y)
	if code == CodeIllegalArgument {
		return nil, fmt.Errorf("%w: 坐标必须是两个浮点数", ErrInvalidArguments)
	}
	if err := CheckError(code, "获取坐标处元素失败"); err != nil {
		return nil, err
	}
	return e.sys.Wrap(ref), nil
}

// SetTimeout 设置该元素的消息超时 (秒)，0 表示使用系统默认值
func (e *Element) SetTimeout(seconds float64) error {
	if seconds < 0 {
		return &Error{Kind: KindIllegalArgument, Code: CodeIllegalArgument, Message: "超时不能为负数"}
	}
	code := e.sys.native.SetMessagingTimeout(e.ref, seconds)
	return CheckError(code, "元素引用无效")
}

// ==================== 比较与描述 ====================

// Equal 两个元素是否指向同一原生对象
func (e *Element) Equal(other *Element) bool {
	a, b := e.IsNull(), other.IsNull()
	if a || b {
		return a && b
	}
	return e.sys.native.Equal(e.ref, other.ref)
}

// String 返回用于日志的描述，如 <AXButton "OK">，不会失败
func (e *Element) String() string {
	if e.IsNull() {
		return "<no role>"
	}
	role := e.Role()
	if role == "" {
		return "<no role>"
	}

	desc := e.Title()
	if desc == "" {
		desc = e.stringAttr("AXValue")
	}
	if desc == "" {
		desc = e.stringAttr("AXRoleDescription")
	}
	if desc == "" {
		return fmt.Sprintf("<%s>", role)
	}
	return fmt.Sprintf("<%s %q>", role, truncate(desc, descriptionLimit))
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
