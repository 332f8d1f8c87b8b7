//go:build darwin

package native

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#import <Foundation/Foundation.h>
#import <ApplicationServices/ApplicationServices.h>
#include <stdint.h>
#include <stdlib.h>

extern void goObserverCallback(uintptr_t element, char *notification, uintptr_t handle);

enum axKind {
    axKindUnknown = 0,
    axKindString,
    axKindBool,
    axKindInt,
    axKindFloat,
    axKindArray,
    axKindElement,
    axKindValue,
    axKindURL,
};

static CFStringRef axCFString(const char *s) {
    return CFStringCreateWithCString(NULL, s, kCFStringEncodingUTF8);
}

static char *axCopyCString(CFStringRef s) {
    if (s == NULL) {
        return NULL;
    }
    CFIndex len = CFStringGetLength(s);
    CFIndex size = CFStringGetMaximumSizeForEncoding(len, kCFStringEncodingUTF8) + 1;
    char *buf = malloc(size);
    if (!CFStringGetCString(s, buf, size, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static void axRetain(uintptr_t ref) {
    if (ref != 0) {
        CFRetain((CFTypeRef)ref);
    }
}

static void axRelease(uintptr_t ref) {
    if (ref != 0) {
        CFRelease((CFTypeRef)ref);
    }
}

// ==================== 元素 ====================

static uintptr_t axCreateApplication(int pid) {
    return (uintptr_t)AXUIElementCreateApplication((pid_t)pid);
}

static uintptr_t axCreateSystemWide(void) {
    return (uintptr_t)AXUIElementCreateSystemWide();
}

static int axCopyAttributeNames(uintptr_t el, uintptr_t *out) {
    CFArrayRef names = NULL;
    AXError err = AXUIElementCopyAttributeNames((AXUIElementRef)el, &names);
    *out = (uintptr_t)names;
    return err;
}

static int axCopyActionNames(uintptr_t el, uintptr_t *out) {
    CFArrayRef names = NULL;
    AXError err = AXUIElementCopyActionNames((AXUIElementRef)el, &names);
    *out = (uintptr_t)names;
    return err;
}

static int axCopyAttributeValue(uintptr_t el, const char *name, uintptr_t *out) {
    CFStringRef attr = axCFString(name);
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue((AXUIElementRef)el, attr, &value);
    CFRelease(attr);
    *out = (uintptr_t)value;
    return err;
}

static int axIsAttributeSettable(uintptr_t el, const char *name, int *out) {
    CFStringRef attr = axCFString(name);
    Boolean settable = false;
    AXError err = AXUIElementIsAttributeSettable((AXUIElementRef)el, attr, &settable);
    CFRelease(attr);
    *out = settable ? 1 : 0;
    return err;
}

static int axSetAttributeValue(uintptr_t el, const char *name, uintptr_t value) {
    CFStringRef attr = axCFString(name);
    AXError err = AXUIElementSetAttributeValue((AXUIElementRef)el, attr, (CFTypeRef)value);
    CFRelease(attr);
    return err;
}

static int axPerformAction(uintptr_t el, const char *action) {
    CFStringRef name = axCFString(action);
    AXError err = AXUIElementPerformAction((AXUIElementRef)el, name);
    CFRelease(name);
    return err;
}

static int axGetPid(uintptr_t el, int *out) {
    pid_t pid = 0;
    AXError err = AXUIElementGetPid((AXUIElementRef)el, &pid);
    *out = (int)pid;
    return err;
}

static int axElementAtPosition(uintptr_t el, float x, float y, uintptr_t *out) {
    AXUIElementRef hit = NULL;
    AXError err = AXUIElementCopyElementAtPosition((AXUIElementRef)el, x, y, &hit);
    *out = (uintptr_t)hit;
    return err;
}

static int axSetMessagingTimeout(uintptr_t el, float seconds) {
    return AXUIElementSetMessagingTimeout((AXUIElementRef)el, seconds);
}

static int axEqual(uintptr_t a, uintptr_t b) {
    return CFEqual((CFTypeRef)a, (CFTypeRef)b) ? 1 : 0;
}

static int axIsTrusted(int prompt) {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

// ==================== 值 ====================

static int axKindOf(uintptr_t ref) {
    CFTypeRef v = (CFTypeRef)ref;
    CFTypeID id = CFGetTypeID(v);
    if (id == CFStringGetTypeID()) return axKindString;
    if (id == CFBooleanGetTypeID()) return axKindBool;
    if (id == CFNumberGetTypeID()) return CFNumberIsFloatType((CFNumberRef)v) ? axKindFloat : axKindInt;
    if (id == CFArrayGetTypeID()) return axKindArray;
    if (id == AXUIElementGetTypeID()) return axKindElement;
    if (id == AXValueGetTypeID()) return axKindValue;
    if (id == CFURLGetTypeID()) return axKindURL;
    return axKindUnknown;
}

static char *axStringValue(uintptr_t ref) {
    return axCopyCString((CFStringRef)ref);
}

static int axBoolValue(uintptr_t ref) {
    return CFBooleanGetValue((CFBooleanRef)ref) ? 1 : 0;
}

static long long axIntValue(uintptr_t ref) {
    long long v = 0;
    CFNumberGetValue((CFNumberRef)ref, kCFNumberLongLongType, &v);
    return v;
}

static double axFloatValue(uintptr_t ref) {
    double v = 0;
    CFNumberGetValue((CFNumberRef)ref, kCFNumberDoubleType, &v);
    return v;
}

static long axArrayCount(uintptr_t ref) {
    return (long)CFArrayGetCount((CFArrayRef)ref);
}

static uintptr_t axArrayAt(uintptr_t ref, long i) {
    return (uintptr_t)CFArrayGetValueAtIndex((CFArrayRef)ref, (CFIndex)i);
}

static char *axURLValue(uintptr_t ref) {
    return axCopyCString(CFURLGetString((CFURLRef)ref));
}

static char *axDescription(uintptr_t ref) {
    CFStringRef desc = CFCopyDescription((CFTypeRef)ref);
    char *s = axCopyCString(desc);
    if (desc != NULL) {
        CFRelease(desc);
    }
    return s;
}

// axStructValue 读取打包结构，返回字段数，无法识别时返回 0
static int axStructValue(uintptr_t ref, int *type, double *out) {
    AXValueRef v = (AXValueRef)ref;
    AXValueType t = AXValueGetType(v);
    *type = (int)t;
    switch (t) {
    case kAXValueCGPointType: {
        CGPoint p;
        if (!AXValueGetValue(v, t, &p)) return 0;
        out[0] = p.x; out[1] = p.y;
        return 2;
    }
    case kAXValueCGSizeType: {
        CGSize s;
        if (!AXValueGetValue(v, t, &s)) return 0;
        out[0] = s.width; out[1] = s.height;
        return 2;
    }
    case kAXValueCGRectType: {
        CGRect r;
        if (!AXValueGetValue(v, t, &r)) return 0;
        out[0] = r.origin.x; out[1] = r.origin.y;
        out[2] = r.size.width; out[3] = r.size.height;
        return 4;
    }
    case kAXValueCFRangeType: {
        CFRange r;
        if (!AXValueGetValue(v, t, &r)) return 0;
        out[0] = (double)r.location; out[1] = (double)r.length;
        return 2;
    }
    default:
        return 0;
    }
}

static uintptr_t axNewString(const char *s) {
    return (uintptr_t)axCFString(s);
}

static uintptr_t axNewBool(int b) {
    CFBooleanRef v = b ? kCFBooleanTrue : kCFBooleanFalse;
    CFRetain(v);
    return (uintptr_t)v;
}

static uintptr_t axNewInt(long long v) {
    return (uintptr_t)CFNumberCreate(NULL, kCFNumberLongLongType, &v);
}

static uintptr_t axNewFloat(double v) {
    return (uintptr_t)CFNumberCreate(NULL, kCFNumberDoubleType, &v);
}

static uintptr_t axNewStruct(int type, double a, double b, double c, double d) {
    switch (type) {
    case kAXValueCGPointType: {
        CGPoint p = CGPointMake(a, b);
        return (uintptr_t)AXValueCreate(kAXValueCGPointType, &p);
    }
    case kAXValueCGSizeType: {
        CGSize s = CGSizeMake(a, b);
        return (uintptr_t)AXValueCreate(kAXValueCGSizeType, &s);
    }
    case kAXValueCGRectType: {
        CGRect r = CGRectMake(a, b, c, d);
        return (uintptr_t)AXValueCreate(kAXValueCGRectType, &r);
    }
    case kAXValueCFRangeType: {
        CFRange r = CFRangeMake((CFIndex)a, (CFIndex)b);
        return (uintptr_t)AXValueCreate(kAXValueCFRangeType, &r);
    }
    default:
        return 0;
    }
}

static uintptr_t axNewArray(uintptr_t *items, long n) {
    return (uintptr_t)CFArrayCreate(NULL, (const void **)items, (CFIndex)n, &kCFTypeArrayCallBacks);
}

// ==================== 观察者 ====================

static void axObserverCallback(AXObserverRef observer, AXUIElementRef element, CFStringRef notification, void *refcon) {
    char *name = axCopyCString(notification);
    goObserverCallback((uintptr_t)element, name, (uintptr_t)refcon);
    free(name);
}

static int axObserverCreate(int pid, uintptr_t *out) {
    AXObserverRef obs = NULL;
    AXError err = AXObserverCreate((pid_t)pid, axObserverCallback, &obs);
    *out = (uintptr_t)obs;
    return err;
}

static int axObserverAdd(uintptr_t obs, uintptr_t el, const char *notification, uintptr_t refcon) {
    CFStringRef name = axCFString(notification);
    AXError err = AXObserverAddNotification((AXObserverRef)obs, (AXUIElementRef)el, name, (void *)refcon);
    CFRelease(name);
    return err;
}

static int axObserverRemove(uintptr_t obs, uintptr_t el, const char *notification) {
    CFStringRef name = axCFString(notification);
    AXError err = AXObserverRemoveNotification((AXObserverRef)obs, (AXUIElementRef)el, name);
    CFRelease(name);
    return err;
}

static void axObserverAttach(uintptr_t obs, uintptr_t loop) {
    CFRunLoopAddSource((CFRunLoopRef)loop, AXObserverGetRunLoopSource((AXObserverRef)obs), kCFRunLoopDefaultMode);
}

static void axObserverDetach(uintptr_t obs, uintptr_t loop) {
    CFRunLoopRemoveSource((CFRunLoopRef)loop, AXObserverGetRunLoopSource((AXObserverRef)obs), kCFRunLoopDefaultMode);
}

// ==================== 运行循环 ====================

static uintptr_t axCurrentRunLoop(void) {
    CFRunLoopRef loop = CFRunLoopGetCurrent();
    CFRetain(loop);
    return (uintptr_t)loop;
}

// axRunLoopRunSlice 返回 1 表示当前模式下没有任何输入源
static int axRunLoopRunSlice(double seconds) {
    return CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, false) == kCFRunLoopRunFinished ? 1 : 0;
}

static void axRunLoopStop(uintptr_t loop) {
    CFRunLoopStop((CFRunLoopRef)loop);
}
*/
import "C"

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"go.uber.org/zap"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// ==================== 句柄 ====================

// element 持有一个 AXUIElementRef 引用计数，回收时释放
type element struct {
	ref uintptr
}

// wrapElement 包装元素引用；retain 为 true 时增加引用计数 (引用不属于调用方)
func wrapElement(ref uintptr, retain bool) ax.Ref {
	if ref == 0 {
		return nil
	}
	if retain {
		C.axRetain(C.uintptr_t(ref))
	}
	e := &element{ref: ref}
	runtime.SetFinalizer(e, func(e *element) {
		C.axRelease(C.uintptr_t(e.ref))
	})
	return e
}

func refOf(r ax.Ref) (C.uintptr_t, bool) {
	e, ok := r.(*element)
	if !ok || e == nil {
		return 0, false
	}
	return C.uintptr_t(e.ref), true
}

func goString(cs *C.char) string {
	if cs == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs)
}

func code(err C.int) ax.Code {
	return ax.Code(err)
}

// ==================== 值转换 ====================

// fromCF 将 CF 值转换为 ax.Native 约定的原生值，不释放 ref
func fromCF(ref C.uintptr_t) any {
	if ref == 0 {
		return nil
	}
	switch C.axKindOf(ref) {
	case C.axKindString:
		return goString(C.axStringValue(ref))
	case C.axKindBool:
		return C.axBoolValue(ref) == 1
	case C.axKindInt:
		return int64(C.axIntValue(ref))
	case C.axKindFloat:
		return float64(C.axFloatValue(ref))
	case C.axKindArray:
		n := int(C.axArrayCount(ref))
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, fromCF(C.axArrayAt(ref, C.long(i))))
		}
		return items
	case C.axKindElement:
		return ax.RawElement{Ref: wrapElement(uintptr(ref), true)}
	case C.axKindValue:
		var typ C.int
		var fields [4]C.double
		n := int(C.axStructValue(ref, &typ, &fields[0]))
		repr := goString(C.axDescription(ref))
		if n == 0 {
			return ax.RawStruct{Type: ax.StructType(typ), Repr: repr}
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(fields[i])
		}
		return ax.RawStruct{Type: ax.StructType(typ), Fields: out, Repr: repr}
	case C.axKindURL:
		return goString(C.axURLValue(ref))
	default:
		return goString(C.axDescription(ref))
	}
}

// toCF 将 Go 值转换为 CF 值；owned 为 true 时调用方负责释放
func toCF(v any) (ref C.uintptr_t, owned bool, ok bool) {
	switch x := v.(type) {
	case string:
		cs := C.CString(x)
		defer C.free(unsafe.Pointer(cs))
		return C.axNewString(cs), true, true
	case bool:
		b := 0
		if x {
			b = 1
		}
		return C.axNewBool(C.int(b)), true, true
	case int:
		return C.axNewInt(C.longlong(x)), true, true
	case int64:
		return C.axNewInt(C.longlong(x)), true, true
	case float64:
		return C.axNewFloat(C.double(x)), true, true
	case ax.RawElement:
		r, ok := refOf(x.Ref)
		return r, false, ok
	case ax.RawStruct:
		var f [4]float64
		copy(f[:], x.Fields)
		r := C.axNewStruct(C.int(x.Type), C.double(f[0]), C.double(f[1]), C.double(f[2]), C.double(f[3]))
		return r, true, r != 0
	case []any:
		items := make([]C.uintptr_t, 0, len(x))
		var release []C.uintptr_t
		defer func() {
			for _, r := range release {
				C.axRelease(r)
			}
		}()
		for _, item := range x {
			r, owned, ok := toCF(item)
			if !ok {
				return 0, false, false
			}
			if owned {
				release = append(release, r)
			}
			items = append(items, r)
		}
		if len(items) == 0 {
			return C.axNewArray(nil, 0), true, true
		}
		return C.axNewArray(&items[0], C.long(len(items))), true, true
	default:
		return 0, false, false
	}
}

func stringList(ref C.uintptr_t) []string {
	items, _ := fromCF(ref).([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ==================== ax.Native ====================

func (s *Service) CreateApplication(pid int) ax.Ref {
	return wrapElement(uintptr(C.axCreateApplication(C.int(pid))), false)
}

func (s *Service) CreateSystemWide() ax.Ref {
	return wrapElement(uintptr(C.axCreateSystemWide()), false)
}

func (s *Service) AttributeNames(r ax.Ref) ([]string, ax.Code) {
	el, ok := refOf(r)
	if !ok {
		return nil, ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	var names C.uintptr_t
	if c := code(C.axCopyAttributeNames(el, &names)); c != ax.CodeSuccess {
		return nil, c
	}
	defer C.axRelease(names)
	return stringList(names), ax.CodeSuccess
}

func (s *Service) AttributeValue(r ax.Ref, name string) (any, ax.Code) {
	el, ok := refOf(r)
	if !ok {
		return nil, ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var value C.uintptr_t
	if c := code(C.axCopyAttributeValue(el, cname, &value)); c != ax.CodeSuccess {
		return nil, c
	}
	defer C.axRelease(value)
	return fromCF(value), ax.CodeSuccess
}

func (s *Service) IsAttributeSettable(r ax.Ref, name string) (bool, ax.Code) {
	el, ok := refOf(r)
	if !ok {
		return false, ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var settable C.int
	c := code(C.axIsAttributeSettable(el, cname, &settable))
	return settable == 1, c
}

func (s *Service) SetAttributeValue(r ax.Ref, name string, value any) ax.Code {
	el, ok := refOf(r)
	if !ok {
		return ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)
	defer runtime.KeepAlive(value)

	v, owned, ok := toCF(value)
	if !ok {
		s.log.Debug("无法转换属性值", zap.String("attribute", name), zap.Any("value", value))
		return ax.CodeIllegalArgument
	}
	if owned {
		defer C.axRelease(v)
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return code(C.axSetAttributeValue(el, cname, v))
}

func (s *Service) ActionNames(r ax.Ref) ([]string, ax.Code) {
	el, ok := refOf(r)
	if !ok {
		return nil, ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	var names C.uintptr_t
	if c := code(C.axCopyActionNames(el, &names)); c != ax.CodeSuccess {
		return nil, c
	}
	defer C.axRelease(names)
	return stringList(names), ax.CodeSuccess
}

func (s *Service) PerformAction(r ax.Ref, action string) ax.Code {
	el, ok := refOf(r)
	if !ok {
		return ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	caction := C.CString(action)
	defer C.free(unsafe.Pointer(caction))
	return code(C.axPerformAction(el, caction))
}

func (s *Service) PID(r ax.Ref) (int, ax.Code) {
	el, ok := refOf(r)
	if !ok {
		return 0, ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	var pid C.int
	c := code(C.axGetPid(el, &pid))
	return int(pid), c
}

func (s *Service) ElementAtPosition(r ax.Ref, x, y float64) (ax.Ref, ax.Code) {
	el, ok := refOf(r)
	if !ok {
		return nil, ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return nil, ax.CodeIllegalArgument
	}
	var hit C.uintptr_t
	if c := code(C.axElementAtPosition(el, C.float(x), C.float(y), &hit)); c != ax.CodeSuccess {
		return nil, c
	}
	return wrapElement(uintptr(hit), false), ax.CodeSuccess
}

func (s *Service) SetMessagingTimeout(r ax.Ref, seconds float64) ax.Code {
	el, ok := refOf(r)
	if !ok {
		return ax.CodeIllegalArgument
	}
	defer runtime.KeepAlive(r)
	return code(C.axSetMessagingTimeout(el, C.float(seconds)))
}

func (s *Service) Equal(a, b ax.Ref) bool {
	ra, okA := refOf(a)
	rb, okB := refOf(b)
	if !okA || !okB {
		return false
	}
	defer runtime.KeepAlive(a)
	defer runtime.KeepAlive(b)
	return C.axEqual(ra, rb) == 1
}

func (s *Service) IsTrusted(prompt bool) bool {
	p := 0
	if prompt {
		p = 1
	}
	return C.axIsTrusted(C.int(p)) == 1
}

// ==================== 观察者 ====================

type regKey struct {
	element      uintptr
	notification string
}

// observer 持有 AXObserverRef 及其通知注册
type observer struct {
	ref     C.uintptr_t
	pid     int
	cb      ax.ObserverCallback
	mu      sync.Mutex
	handles map[regKey]uintptr
}

//export goObserverCallback
func goObserverCallback(element C.uintptr_t, notification *C.char, handle C.uintptr_t) {
	reg, ok := callbacks.get(uintptr(handle))
	if !ok {
		return
	}
	// 回调参数中的元素不属于我们，需要 retain
	ref := wrapElement(uintptr(element), true)
	reg.cb(ref, C.GoString(notification), reg.context)
}

func (s *Service) CreateObserver(pid int, cb ax.ObserverCallback) (ax.ObserverRef, ax.Code) {
	var ref C.uintptr_t
	if c := code(C.axObserverCreate(C.int(pid), &ref)); c != ax.CodeSuccess {
		return nil, c
	}
	return &observer{ref: ref, pid: pid, cb: cb, handles: map[regKey]uintptr{}}, ax.CodeSuccess
}

func (s *Service) AddNotification(obs ax.ObserverRef, r ax.Ref, notification string, refcon string) ax.Code {
	o, ok := obs.(*observer)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	el, ok := refOf(r)
	if !ok {
		return ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	key := regKey{element: uintptr(el), notification: notification}
	h := callbacks.add(&registration{cb: o.cb, context: refcon})

	cname := C.CString(notification)
	defer C.free(unsafe.Pointer(cname))
	if c := code(C.axObserverAdd(o.ref, el, cname, C.uintptr_t(h))); c != ax.CodeSuccess {
		callbacks.remove(h)
		return c
	}

	o.mu.Lock()
	o.handles[key] = h
	o.mu.Unlock()
	return ax.CodeSuccess
}

func (s *Service) RemoveNotification(obs ax.ObserverRef, r ax.Ref, notification string) ax.Code {
	o, ok := obs.(*observer)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	el, ok := refOf(r)
	if !ok {
		return ax.CodeInvalidUIElement
	}
	defer runtime.KeepAlive(r)

	cname := C.CString(notification)
	defer C.free(unsafe.Pointer(cname))
	c := code(C.axObserverRemove(o.ref, el, cname))

	key := regKey{element: uintptr(el), notification: notification}
	o.mu.Lock()
	if h, found := o.handles[key]; found {
		callbacks.remove(h)
		delete(o.handles, key)
	}
	o.mu.Unlock()
	return c
}

func (s *Service) AttachObserver(obs ax.ObserverRef, loop ax.RunLoop) ax.Code {
	o, ok := obs.(*observer)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	l, ok := loop.(*runLoop)
	if !ok {
		return ax.CodeIllegalArgument
	}
	C.axObserverAttach(o.ref, l.ref)
	return ax.CodeSuccess
}

func (s *Service) DetachObserver(obs ax.ObserverRef, loop ax.RunLoop) ax.Code {
	o, ok := obs.(*observer)
	if !ok {
		return ax.CodeInvalidUIElementObserver
	}
	l, ok := loop.(*runLoop)
	if !ok {
		return ax.CodeIllegalArgument
	}
	C.axObserverDetach(o.ref, l.ref)
	return ax.CodeSuccess
}

func (s *Service) ReleaseObserver(obs ax.ObserverRef) {
	o, ok := obs.(*observer)
	if !ok || o.ref == 0 {
		return
	}
	o.mu.Lock()
	for key, h := range o.handles {
		callbacks.remove(h)
		delete(o.handles, key)
	}
	o.mu.Unlock()
	C.axRelease(o.ref)
	o.ref = 0
}

// ==================== 运行循环 ====================

// runLoop 绑定到创建线程的 CFRunLoop
type runLoop struct {
	ref     C.uintptr_t
	stopped atomic.Bool
}

// NewRunLoop 返回当前线程的运行循环，调用方需要先锁定 OS 线程
func (s *Service) NewRunLoop() ax.RunLoop {
	l := &runLoop{ref: C.axCurrentRunLoop()}
	runtime.SetFinalizer(l, func(l *runLoop) {
		C.axRelease(l.ref)
	})
	return l
}

// Run 分片运行 CFRunLoop，直到 Stop 或 ctx 结束
func (l *runLoop) Run(ctx context.Context) error {
	for !l.stopped.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if C.axRunLoopRunSlice(C.double(runSlice.Seconds())) == 1 {
			// 没有输入源时 CFRunLoopRunInMode 立即返回
			time.Sleep(runSlice)
		}
	}
	return nil
}

// Stop 可以在任意线程调用，也可以在 Run 之前调用
func (l *runLoop) Stop() {
	l.stopped.Store(true)
	C.axRunLoopStop(l.ref)
}

func (l *runLoop) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
