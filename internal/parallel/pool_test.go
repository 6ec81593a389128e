package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteAllRunsEverything(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var count atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}

	p.ExecuteAll(work)

	if got := count.Load(); got != 100 {
		t.Errorf("executed %d tasks, want 100", got)
	}
}

func TestExecuteAllEmpty(t *testing.T) {
	p := NewPool(2)
	defer p.Close()
	p.ExecuteAll(nil) // must not block or panic
}

func TestDefaultWorkerCount(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	if p.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want GOMAXPROCS = %d", p.Workers(), runtime.GOMAXPROCS(0))
	}
}

func TestCloseIdempotent(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close() // second close must be a no-op
}

func TestExecuteAllAfterCloseRunsInline(t *testing.T) {
	p := NewPool(2)
	p.Close()

	var count atomic.Int64
	p.ExecuteAll([]func(){
		func() { count.Add(1) },
		func() { count.Add(1) },
	})
	if got := count.Load(); got != 2 {
		t.Errorf("executed %d tasks after close, want 2 (inline)", got)
	}
}

// A batch submitted while the pool is shutting down must either be drained
// by the workers or run inline; it may never be parked in the queue with
// nobody left to run it. Regression test: ExecuteAll used to hang when
// Close won the race mid-submission.
func TestCloseConcurrentWithExecuteAll(t *testing.T) {
	for round := 0; round < 500; round++ {
		p := NewPool(4)

		var count atomic.Int64
		work := make([]func(), 64)
		for i := range work {
			work[i] = func() { count.Add(1) }
		}

		returned := make(chan struct{})
		go func() {
			p.ExecuteAll(work)
			close(returned)
		}()
		p.Close()

		select {
		case <-returned:
		case <-time.After(10 * time.Second):
			t.Fatalf("round %d: ExecuteAll did not return after concurrent Close", round)
		}
		if got := count.Load(); got != 64 {
			t.Fatalf("round %d: executed %d tasks, want 64", round, got)
		}
	}
}

func TestExecuteAllManyBatches(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	var count atomic.Int64
	for batch := 0; batch < 20; batch++ {
		work := make([]func(), 50)
		for i := range work {
			work[i] = func() { count.Add(1) }
		}
		p.ExecuteAll(work)
	}
	if got := count.Load(); got != 1000 {
		t.Errorf("executed %d tasks, want 1000", got)
	}
}
