package httpx

import "context"

// Dispatcher runs one connection's work. Serve hands every accepted
// connection to it, so the scheduling policy can change without touching
// request handling.
type Dispatcher interface {
	// Dispatch starts fn, or returns ctx.Err() if it cannot before ctx ends.
	Dispatch(ctx context.Context, fn func()) error
}

// GoDispatcher starts one goroutine per call with no limit.
type GoDispatcher struct{}

func (GoDispatcher) Dispatch(_ context.Context, fn func()) error {
	go fn()
	return nil
}

// BoundedDispatcher allows at most N concurrent calls. Dispatch blocks
// while all slots are busy, which stalls the accept loop.
type BoundedDispatcher struct {
	sem chan struct{}
}

func NewBoundedDispatcher(n int) *BoundedDispatcher {
	if n < 1 {
		n = 1
	}
	return &BoundedDispatcher{sem: make(chan struct{}, n)}
}

func (d *BoundedDispatcher) Dispatch(ctx context.Context, fn func()) error {
	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	go func() {
		defer func() { <-d.sem }()
		fn()
	}()
	return nil
}
