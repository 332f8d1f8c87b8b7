package ax

import (
	"errors"
	"fmt"
)

// Code 原生无障碍接口返回的状态码 (AXError)
type Code int32

const (
	CodeSuccess                           Code = 0
	CodeFailure                           Code = -25200
	CodeIllegalArgument                   Code = -25201
	CodeInvalidUIElement                  Code = -25202
	CodeInvalidUIElementObserver          Code = -25203
	CodeCannotComplete                    Code = -25204
	CodeAttributeUnsupported              Code = -25205
	CodeActionUnsupported                 Code = -25206
	CodeNotificationUnsupported           Code = -25207
	CodeNotImplemented                    Code = -25208
	CodeNotificationAlreadyRegistered     Code = -25209
	CodeNotificationNotRegistered         Code = -25210
	CodeAPIDisabled                       Code = -25211
	CodeNoValue                           Code = -25212
	CodeParameterizedAttributeUnsupported Code = -25213
	CodeNotEnoughPrecision                Code = -25214
)

// Kind 错误类别
type Kind int

const (
	KindUnsupported Kind = iota
	KindAPIDisabled
	KindInvalidElement
	KindCannotComplete
	KindNotImplemented
	KindIllegalArgument
	KindActionUnsupported
	KindNoValue
	KindFailure
)

var kindNames = map[Kind]string{
	KindUnsupported:       "Unsupported",
	KindAPIDisabled:       "APIDisabled",
	KindInvalidElement:    "InvalidElement",
	KindCannotComplete:    "CannotComplete",
	KindNotImplemented:    "NotImplemented",
	KindIllegalArgument:   "IllegalArgument",
	KindActionUnsupported: "ActionUnsupported",
	KindNoValue:           "NoValue",
	KindFailure:           "Failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// codeKinds 状态码到错误类别的固定映射，未列出的状态码归为 Unsupported
var codeKinds = map[Code]Kind{
	CodeAPIDisabled:       KindAPIDisabled,
	CodeInvalidUIElement:  KindInvalidElement,
	CodeCannotComplete:    KindCannotComplete,
	CodeNotImplemented:    KindNotImplemented,
	CodeIllegalArgument:   KindIllegalArgument,
	CodeNoValue:           KindNoValue,
	CodeActionUnsupported: KindActionUnsupported,
	CodeFailure:           KindFailure,
}

// KindOf 返回状态码对应的错误类别
func KindOf(code Code) Kind {
	if kind, ok := codeKinds[code]; ok {
		return kind
	}
	return KindUnsupported
}

// Error 无障碍错误
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	// Name 出错的属性名或动作名
	Name  string
	Cause error

	sentinel bool
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Name)
	}
	if e.Code != CodeSuccess {
		msg = fmt.Sprintf("%s (AX Error %d)", msg, e.Code)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 支持 errors.Is 按类别比较
func (e *Error) Is(target error) bool {
	if target == ErrAccessibility {
		return true
	}
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return t.Kind == e.Kind
}

func newSentinel(kind Kind) *Error {
	return &Error{Kind: kind, Message: kind.String(), sentinel: true}
}

// 错误类别哨兵，用 errors.Is 判断
var (
	ErrAccessibility     = errors.New("accessibility error")
	ErrUnsupported       = newSentinel(KindUnsupported)
	ErrAPIDisabled       = newSentinel(KindAPIDisabled)
	ErrInvalidElement    = newSentinel(KindInvalidElement)
	ErrCannotComplete    = newSentinel(KindCannotComplete)
	ErrNotImplemented    = newSentinel(KindNotImplemented)
	ErrIllegalArgument   = newSentinel(KindIllegalArgument)
	ErrActionUnsupported = newSentinel(KindActionUnsupported)
	ErrNoValue           = newSentinel(KindNoValue)
	ErrFailure           = newSentinel(KindFailure)
)

// 上层错误，不属于无障碍错误分类
var (
	ErrNotFound           = errors.New("未找到")
	ErrInvalidArguments   = errors.New("参数无效")
	ErrUndefinedAttribute = errors.New("未定义的属性")
	ErrUndefinedAction    = errors.New("未定义的动作")
	ErrUnknownKey         = errors.New("未知按键")
	ErrInterrupted        = errors.New("等待被中断")
	ErrConversion         = errors.New("值转换失败")
)

// CheckError 将状态码转换为错误，成功时返回 nil
func CheckError(code Code, message string) error {
	if code == CodeSuccess {
		return nil
	}
	return &Error{Kind: KindOf(code), Code: code, Message: message}
}

// checkNamed 与 CheckError 相同，附带属性名或动作名
func checkNamed(code Code, message, name string) error {
	if code == CodeSuccess {
		return nil
	}
	return &Error{Kind: KindOf(code), Code: code, Message: message, Name: name}
}

// undefinedAttribute 属性名不在当前属性集合中
func undefinedAttribute(name string) error {
	return &Error{Kind: KindUnsupported, Message: "元素没有该属性", Name: name, Cause: ErrUndefinedAttribute}
}

// undefinedAction 动作名不在当前动作集合中
func undefinedAction(name string) error {
	return &Error{Kind: KindUnsupported, Message: "元素没有该动作", Name: name, Cause: ErrUndefinedAction}
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	var axErr *Error
	if !errors.As(err, &axErr) {
		return false
	}
	return axErr.Kind == kind
}
