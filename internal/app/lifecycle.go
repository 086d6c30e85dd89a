package app

import (
	"sync"

	"agrimarket-delivery/internal/logx"
)

// lifecycle collects resources opened by providers and closes them in reverse order.
type lifecycle struct {
	mu      sync.Mutex
	closers []namedCloser
}

type namedCloser struct {
	name string
	fn   func() error
}

func newLifecycle() *lifecycle {
	return &lifecycle{}
}

func (l *lifecycle) add(name string, fn func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closers = append(l.closers, namedCloser{name: name, fn: fn})
}

// closeAll is safe to call more than once.
func (l *lifecycle) closeAll(logger logx.Logger) {
	l.mu.Lock()
	closers := l.closers
	l.closers = nil
	l.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.fn(); err != nil {
			logger.Error("close error", logx.String("resource", c.name), logx.Err(err))
		}
	}
}
