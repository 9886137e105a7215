package usecase

import (
	"context"
	"sync"
)

// Background tracks fire-and-forget work started by services so main can
// drain it before closing the database pool.
type Background struct {
	wg sync.WaitGroup
}

func NewBackground() *Background {
	return &Background{}
}

func (b *Background) Go(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait blocks until every tracked job returned or ctx is done
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
