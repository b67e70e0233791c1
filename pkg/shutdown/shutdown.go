package shutdown

import (
	"context"
	"sync"

	"github.com/tradebot/gobinance/pkg/logger"
)

// Handler is one shutdown callback.
type Handler func(ctx context.Context, wg *sync.WaitGroup)

// Manager runs registered shutdown callbacks concurrently with a deadline.
type Manager struct {
	callbacks []Handler
	mu        sync.Mutex
}

// NewManager creates an empty shutdown manager.
func NewManager() *Manager {
	return &Manager{
		callbacks: make([]Handler, 0),
	}
}

// OnShutdown registers a callback.
func (m *Manager) OnShutdown(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, handler)
}

// Shutdown runs all callbacks and blocks until they finish or ctx expires.
// ctx should carry a timeout to avoid waiting forever.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	callbacks := m.callbacks
	m.mu.Unlock()

	if len(callbacks) == 0 {
		return
	}

	logger.Infof("shutting down, %d callbacks registered", len(callbacks))

	var wg sync.WaitGroup
	wg.Add(len(callbacks))

	for _, cb := range callbacks {
		go func(handler Handler) {
			defer wg.Done()
			handler(ctx, &wg)
		}(cb)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Infof("all shutdown callbacks finished")
	case <-ctx.Done():
		logger.Warnf("shutdown timed out: %v", ctx.Err())
	}
}
