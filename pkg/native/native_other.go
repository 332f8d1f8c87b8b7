//go:build !darwin

package native

import (
	"context"
	"sync"
	"time"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// 非 macOS 平台没有无障碍接口，所有操作返回 CodeNotImplemented

func (s *Service) CreateApplication(pid int) ax.Ref { return nil }

func (s *Service) CreateSystemWide() ax.Ref { return nil }

func (s *Service) AttributeNames(ax.Ref) ([]string, ax.Code) {
	return nil, ax.CodeNotImplemented
}

func (s *Service) AttributeValue(ax.Ref, string) (any, ax.Code) {
	return nil, ax.CodeNotImplemented
}

func (s *Service) IsAttributeSettable(ax.Ref, string) (bool, ax.Code) {
	return false, ax.CodeNotImplemented
}

func (s *Service) SetAttributeValue(ax.Ref, string, any) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) ActionNames(ax.Ref) ([]string, ax.Code) {
	return nil, ax.CodeNotImplemented
}

func (s *Service) PerformAction(ax.Ref, string) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) PID(ax.Ref) (int, ax.Code) {
	return 0, ax.CodeNotImplemented
}

func (s *Service) ElementAtPosition(ax.Ref, float64, float64) (ax.Ref, ax.Code) {
	return nil, ax.CodeNotImplemented
}

func (s *Service) SetMessagingTimeout(ax.Ref, float64) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) Equal(a, b ax.Ref) bool {
	return false
}

func (s *Service) CreateObserver(int, ax.ObserverCallback) (ax.ObserverRef, ax.Code) {
	return nil, ax.CodeNotImplemented
}

func (s *Service) AddNotification(ax.ObserverRef, ax.Ref, string, string) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) RemoveNotification(ax.ObserverRef, ax.Ref, string) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) AttachObserver(ax.ObserverRef, ax.RunLoop) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) DetachObserver(ax.ObserverRef, ax.RunLoop) ax.Code {
	return ax.CodeNotImplemented
}

func (s *Service) ReleaseObserver(ax.ObserverRef) {}

func (s *Service) IsTrusted(bool) bool {
	return false
}

// NewRunLoop 返回基于通道的运行循环
func (s *Service) NewRunLoop() ax.RunLoop {
	return &runLoop{stopped: make(chan struct{})}
}

type runLoop struct {
	stopped chan struct{}
	once    sync.Once
}

func (l *runLoop) Run(ctx context.Context) error {
	select {
	case <-l.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *runLoop) Stop() {
	l.once.Do(func() { close(l.stopped) })
}

func (l *runLoop) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
