package ax

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subscription 一次通知等待，只在单次 Wait 调用期间存在
type Subscription struct {
	ID           string
	Element      *Element
	Notification string
	Timeout      time.Duration
	Filter       func(*Element) bool
}

// Observer 在元素所属进程上等待通知
type Observer struct {
	sys *System
	el  *Element
}

// Observer 返回绑定到该元素的观察者
func (e *Element) Observer() *Observer {
	return &Observer{sys: e.sys, el: e}
}

// waitState 回调与超时协程共享的结果
type waitState struct {
	mu      sync.Mutex
	result  *Element
	settled chan struct{}
	once    sync.Once
}

func (w *waitState) settle(el *Element) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result != nil {
		return false
	}
	w.result = el
	w.once.Do(func() { close(w.settled) })
	return true
}

func (w *waitState) get() *Element {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Wait 注册通知并阻塞，直到 filter 接受某次通知携带的元素或超时
//
// 超时返回 (nil, nil)；ctx 取消或收到 SIGINT 时返回 ErrInterrupted。
// filter 为 nil 时接受第一次通知。无论以何种方式返回，通知注册都会被移除
func (o *Observer) Wait(ctx context.Context, notification string, timeout time.Duration, filter func(*Element) bool) (*Element, error) {
	if timeout <= 0 {
		timeout = o.sys.opts.WaitTimeout
	}
	return o.wait(ctx, &Subscription{
		ID:           uuid.NewString(),
		Element:      o.el,
		Notification: notification,
		Timeout:      timeout,
		Filter:       filter,
	})
}

func (o *Observer) wait(ctx context.Context, sub *Subscription) (result *Element, err error) {
	native := o.sys.native
	log := o.sys.log.With(
		zap.String("subscription", sub.ID),
		zap.String("notification", sub.Notification),
	)

	pid, err := sub.Element.PID()
	if err != nil {
		return nil, err
	}

	// 观察者的运行循环源挂在当前线程上
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if o.sys.opts.HandleInterrupt {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	loop := native.NewRunLoop()
	state := &waitState{settled: make(chan struct{})}

	callback := func(ref Ref, _ string, _ string) {
		if state.get() != nil {
			return
		}
		el := o.sys.Wrap(ref)
		if sub.Filter != nil && !sub.Filter(el) {
			log.Debug("通知未通过过滤", zap.Stringer("element", el))
			return
		}
		if state.settle(el) {
			loop.Stop()
		}
	}

	obs, code := native.CreateObserver(pid, callback)
	if err := CheckError(code, "无法创建通知观察者"); err != nil {
		return nil, err
	}
	defer native.ReleaseObserver(obs)

	code = native.AddNotification(obs, sub.Element.ref, sub.Notification, sub.ID)
	if err := checkNamed(code, "无法注册通知", sub.Notification); err != nil {
		return nil, err
	}
	defer func() {
		code := native.RemoveNotification(obs, sub.Element.ref, sub.Notification)
		if rmErr := checkNamed(code, "无法移除通知", sub.Notification); rmErr != nil && err == nil {
			err = rmErr
		}
	}()

	if err := CheckError(native.AttachObserver(obs, loop), "无法挂载观察者"); err != nil {
		return nil, err
	}
	defer native.DetachObserver(obs, loop)

	expired := make(chan struct{})
	cancelTimer := loop.AfterFunc(sub.Timeout, func() { close(expired) })
	defer cancelTimer()

	// 超时协程只负责停止循环，不调用原生服务
	finished := make(chan struct{})
	go func() {
		select {
		case <-state.settled:
		case <-expired:
		case <-ctx.Done():
		case <-finished:
			return
		}
		loop.Stop()
	}()

	start := time.Now()
	log.Debug("开始等待通知", zap.Int("pid", pid), zap.Duration("timeout", sub.Timeout))
	runErr := loop.Run(ctx)
	close(finished)
	elapsed := time.Since(start)

	if res := state.get(); res != nil {
		log.Debug("等待完成", zap.Duration("elapsed", elapsed))
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Info("等待被中断", zap.Duration("elapsed", elapsed))
		return nil, fmt.Errorf("%w: %v", ErrInterrupted, ctxErr)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return nil, fmt.Errorf("运行事件循环失败: %w", runErr)
	}
	log.Debug("等待超时", zap.Duration("elapsed", elapsed))
	return nil, nil
}
