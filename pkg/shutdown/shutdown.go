package shutdown

import (
	"context"
	"sync"

	"github.com/betbot/investapi/pkg/logger"
	"github.com/pkg/errors"
)

// Handler 关闭回调，ctx 到期后应尽快返回
type Handler func(ctx context.Context) error

type namedHandler struct {
	name    string
	handler Handler
}

// Manager 优雅关闭管理器
type Manager struct {
	callbacks []namedHandler
	mu        sync.Mutex
}

// NewManager 创建新的关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册关闭回调
func (m *Manager) OnShutdown(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, namedHandler{name: name, handler: handler})
}

// Shutdown 并发执行所有关闭回调，返回第一个失败的回调错误
// 超时后不再等待剩余回调，返回 ctx.Err()
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	callbacks := m.callbacks
	m.callbacks = nil
	m.mu.Unlock()

	if len(callbacks) == 0 {
		logger.Debugf("没有注册的关闭回调")
		return nil
	}

	logger.Infof("开始优雅关闭，共 %d 个回调", len(callbacks))

	errs := make([]error, len(callbacks))
	var wg sync.WaitGroup
	wg.Add(len(callbacks))
	for i, cb := range callbacks {
		go func(i int, cb namedHandler) {
			defer wg.Done()
			if err := cb.handler(ctx); err != nil {
				logger.Warnf("关闭 %s 失败: %v", cb.name, err)
				errs[i] = errors.Wrapf(err, "关闭 %s", cb.name)
			}
		}(i, cb)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Infof("所有关闭回调已完成")
	case <-ctx.Done():
		logger.Warnf("关闭超时: %v", ctx.Err())
		return ctx.Err()
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
