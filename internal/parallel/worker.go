// Package parallel provides the worker pool behind the table engine's
// parallel paths.
//
// Work is fanned out to a fixed number of goroutines and fanned back in by
// index, so callers always see results in input order. The pool owns no
// data: every worker receives its own slice of the input and writes only
// its own result slot.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a fixed number of goroutines for parallel processing.
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a worker pool. A non-positive size means one worker
// per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// ProcessIndexed runs worker over every item and returns the results in
// input order. Items not yet started when the pool is closed are skipped
// and leave a zero result.
func ProcessIndexed[T, R any](
	wp *WorkerPool,
	items []T,
	worker func(int, T) R,
) []R {
	if len(items) == 0 {
		return nil
	}

	results := make([]R, len(items))
	jobs := make(chan int)

	n := min(wp.numWorkers, len(items))
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = worker(i, items[i])
			}
		}()
	}

feed:
	for i := range items {
		select {
		case <-wp.ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// Close shuts down the worker pool. It is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.cancel()
}
