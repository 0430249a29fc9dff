// Package batch runs independent file tasks across a bounded worker pool
// and writes their output atomically.
package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the pool size used when no worker count is set.
const DefaultWorkers = 32

// Processor runs tasks over a list of items.
//
// Every item is attempted: a failing task is recorded and its siblings
// keep running. Cancelling the context stops new tasks from starting and
// lets running ones observe the cancellation.
type Processor struct {
	workers  int // 0 = DefaultWorkers, <0 = serial, >0 = fixed count
	progress func(done, total int)
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWorkers sets the number of workers. Values < 0 force serial
// processing and zero selects DefaultWorkers.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		p.workers = n
	}
}

// WithProgress registers fn to be called after each finished task. fn may
// be called from several goroutines at once.
func WithProgress(fn func(done, total int)) ProcessorOption {
	return func(p *Processor) {
		p.progress = fn
	}
}

// NewProcessor creates a processor.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the number of workers used for n items.
func (p *Processor) Workers(n int) int {
	workers := p.workers
	switch {
	case workers < 0:
		return 1
	case workers == 0:
		workers = DefaultWorkers
	}
	return max(1, min(workers, n))
}

// Run calls fn for every item and returns the errors of failed tasks in
// completion order. The second result is the context error when ctx was
// cancelled before every task started.
func Run[T any](ctx context.Context, p *Processor, items []T, fn func(ctx context.Context, item T) error) ([]error, error) {
	if len(items) == 0 {
		return nil, ctx.Err()
	}
	var (
		mu     sync.Mutex
		failed []error
		done   atomic.Int64
	)
	finish := func(err error) {
		if err != nil {
			mu.Lock()
			failed = append(failed, err)
			mu.Unlock()
		}
		if p.progress != nil {
			p.progress(int(done.Add(1)), len(items))
		}
	}

	workers := p.Workers(len(items))
	if workers < 2 {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return failed, err
			}
			finish(fn(ctx, item))
		}
		return failed, nil
	}

	sem := semaphore.NewWeighted(int64(workers))
	var g errgroup.Group
	var cancelled error
	for _, item := range items {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			cancelled = err
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			finish(fn(ctx, item))
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // tasks report through finish
	return failed, cancelled
}
