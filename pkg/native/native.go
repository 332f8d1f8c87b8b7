// Package native 提供 ax.Native 的系统实现
//
// darwin 上通过 cgo 调用 ApplicationServices 的 AXUIElement/AXObserver 接口，
// 其他平台上所有操作返回 CodeNotImplemented
package native

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// runSlice 运行循环单次运行的最长时间，Stop 和 ctx 在两次运行之间检查
const runSlice = 50 * time.Millisecond

// Service 原生无障碍服务
type Service struct {
	log *zap.Logger
}

var _ ax.Native = (*Service)(nil)

// New 创建原生服务
func New(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log.Named("native")}
}

// registration 一次通知注册，回调通过注册表句柄找回
type registration struct {
	cb      ax.ObserverCallback
	context string
}

// registry 句柄到通知注册的映射，句柄作为 refcon 传给原生回调
type registry struct {
	mu    sync.Mutex
	next  atomic.Uintptr
	items map[uintptr]*registration
}

var callbacks = &registry{items: map[uintptr]*registration{}}

func (r *registry) add(reg *registration) uintptr {
	h := r.next.Add(1)
	r.mu.Lock()
	r.items[h] = reg
	r.mu.Unlock()
	return h
}

func (r *registry) get(h uintptr) (*registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.items[h]
	return reg, ok
}

func (r *registry) remove(h uintptr) {
	r.mu.Lock()
	delete(r.items, h)
	r.mu.Unlock()
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
