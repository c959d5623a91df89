// Package worker runs generation tasks in the background and hands their results back to
// a single owner goroutine.
package worker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

// Pool executes tasks on a bounded set of goroutines. Results are queued and only delivered
// when the owner calls Dispatch, so completion callbacks never run concurrently with each
// other or with the owner's own state changes.
type Pool struct {
	pool pond.Pool
	log  *zap.Logger

	mu        sync.Mutex
	completed []func()

	// inFlight counts requests whose callback has not been dispatched yet
	inFlight atomic.Int64
	ready    chan struct{}
	closed   atomic.Bool
}

// New creates a pool with the given number of workers. workers <= 0 uses one.
func New(workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		pool:  pond.NewPool(workers),
		log:   log,
		ready: make(chan struct{}, 1),
	}
}

// Request runs generate on a worker and queues onDone(result) for the next Dispatch.
// Requests made after Close are dropped.
func Request[T any](p *Pool, generate func() T, onDone func(T)) {
	if p.closed.Load() {
		p.log.Debug("request dropped after close")
		return
	}
	p.inFlight.Add(1)
	err := p.pool.Go(func() {
		result, err := run(generate)
		if err != nil {
			p.log.Error("task failed", zap.Error(err))
			p.inFlight.Add(-1)
			p.signal()
			return
		}
		p.mu.Lock()
		p.completed = append(p.completed, func() { onDone(result) })
		p.mu.Unlock()
		p.signal()
	})
	if err != nil {
		p.log.Debug("request dropped", zap.Error(err))
		p.inFlight.Add(-1)
	}
}

func run[T any](generate func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return generate(), nil
}

func (p *Pool) signal() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Dispatch runs every completion callback queued so far on the calling goroutine and returns
// how many ran. Callbacks may issue new requests; those are delivered by a later Dispatch.
func (p *Pool) Dispatch() int {
	p.mu.Lock()
	batch := p.completed
	p.completed = nil
	p.mu.Unlock()

	for _, fn := range batch {
		fn()
		p.inFlight.Add(-1)
	}
	return len(batch)
}

// Flush dispatches until no request is outstanding, including requests issued by callbacks.
func (p *Pool) Flush() {
	for {
		p.Dispatch()
		if p.inFlight.Load() == 0 {
			return
		}
		<-p.ready
	}
}

// Pending returns the number of requests whose callbacks have not run yet.
func (p *Pool) Pending() int {
	return int(p.inFlight.Load())
}

// RunningWorkers returns the number of active worker goroutines.
func (p *Pool) RunningWorkers() int64 {
	return p.pool.RunningWorkers()
}

// Close stops accepting requests and waits for running tasks. Their callbacks stay queued
// and are discarded unless the owner dispatches them.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.pool.StopAndWait()
	p.log.Debug("worker pool stopped", zap.Uint64("completed", p.pool.CompletedTasks()))
}
