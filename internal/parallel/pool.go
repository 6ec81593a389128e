// Package parallel provides the worker pool behind the CPU frame renderer.
package parallel

import (
	"runtime"
	"sync"
)

// Pool is a fixed set of goroutines that execute batches of independent
// work items. It exists to avoid respawning goroutines every frame: the
// CPU renderer submits one batch of scanline-band tasks per frame and
// waits for the batch to drain.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	tasks   chan task
	done    chan struct{}
	wg      sync.WaitGroup

	// mu serializes batch submission against shutdown: ExecuteAll holds the
	// read side while it queues a batch, so Close cannot retire the workers
	// between the liveness check and the last send. Tasks queued under the
	// read lock are therefore always drained.
	mu      sync.RWMutex
	running bool
}

type task struct {
	fn func()
	wg *sync.WaitGroup
}

// NewPool starts a pool with the given number of workers. If workers is
// zero or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		// Buffer a few batches' worth of tasks so submission rarely blocks.
		tasks:   make(chan task, workers*4),
		done:    make(chan struct{}),
		running: true,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain whatever is already queued so ExecuteAll never
			// deadlocks on a closing pool.
			for {
				select {
				case t := <-p.tasks:
					t.run()
				default:
					return
				}
			}
		case t := <-p.tasks:
			t.run()
		}
	}
}

func (t task) run() {
	if t.fn != nil {
		t.fn()
	}
	if t.wg != nil {
		t.wg.Done()
	}
}

// ExecuteAll runs every item in work on the pool and blocks until all of
// them have completed. Items must be independent; ExecuteAll provides no
// ordering guarantees. On a closed pool the items run inline on the
// calling goroutine instead, so callers never lose work.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for _, fn := range work {
		p.tasks <- task{fn: fn, wg: &wg}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Workers returns the worker count.
func (p *Pool) Workers() int { return p.workers }

// Close stops the workers after the queued work drains. Close is
// idempotent and safe to call concurrently with ExecuteAll: a batch that
// won the race is drained before the workers exit, a batch that lost it
// runs inline.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}
