package loader

import (
	"context"
	"sync"

	"github.com/Carmen-Shannon/oxy-theater/common"
)

// Result is the outcome of an asynchronous load.
type Result[T any] struct {
	Value T
	Err   error
}

// Pending is a one-shot completion for an asynchronous load.
// The worker completes it once; the frame thread consumes it once with Poll.
type Pending[T any] struct {
	mu        sync.Mutex
	name      string
	result    Result[T]
	delivered bool
	done      *common.Signal
}

func newPending[T any](name string) *Pending[T] {
	return &Pending[T]{name: name, done: common.NewSignal()}
}

// Name returns the asset name the load was started for.
func (p *Pending[T]) Name() string {
	return p.name
}

// complete stores the result. Only the first call has any effect.
func (p *Pending[T]) complete(value T, err error) {
	p.mu.Lock()
	if p.done.Fired() {
		p.mu.Unlock()
		return
	}
	p.result = Result[T]{Value: value, Err: err}
	p.mu.Unlock()
	p.done.Fire()
}

// Done returns a channel closed once the load has finished, successfully or not.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done.Done()
}

// Poll hands the result to the caller exactly once, without blocking.
//
// Returns:
//   - Result[T]: the load outcome
//   - bool: true the first time the result is available, false before completion and after delivery
func (p *Pending[T]) Poll() (Result[T], bool) {
	if !p.done.Fired() {
		return Result[T]{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.delivered {
		return Result[T]{}, false
	}
	p.delivered = true
	return p.result, true
}

// Wait blocks until the load finishes or ctx is done. It does not count as delivery.
//
// Parameters:
//   - ctx: cancels the wait, not the load
//
// Returns:
//   - T: the loaded value
//   - error: the load error, or ctx.Err()
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done.Done():
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.result.Value, p.result.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
