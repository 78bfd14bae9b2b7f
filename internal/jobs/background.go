package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Background runs fire-and-forget work started by HTTP handlers, detached
// from the request but bound to the service lifetime.
type Background struct {
	ctx context.Context
	wg  sync.WaitGroup
}

// NewBackground creates a runner whose work is cancelled with ctx.
func NewBackground(ctx context.Context) *Background {
	return &Background{ctx: ctx}
}

// Go runs fn in a new goroutine. Panics are recovered and logged.
func (b *Background) Go(name string, fn func(ctx context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("background job panicked", zap.String("job", name), zap.Any("panic", r))
			}
		}()
		fn(b.ctx)
	}()
}

// Wait blocks until all started work has returned.
func (b *Background) Wait() {
	b.wg.Wait()
}
