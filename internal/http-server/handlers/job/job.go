package job

import (
	"context"
	"sync"
	"time"
)

// Job is one unit of deferred side work (event fan-out, audit
// publishing). Execution order across workers is not guaranteed.
type Job interface {
	Execute()
}

type JobQueue chan Job

var Queue JobQueue

// Dispatch enqueues a job after an optional delay. A full queue blocks
// the dispatching goroutine, never the caller.
func Dispatch(job Job, delay time.Duration) {
	go func() {
		if delay > 0 {
			<-time.After(delay)
		}

		Queue <- job
	}()
}

type WorkerPool struct {
	queue  JobQueue
	size   int
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(size int, queue JobQueue) *WorkerPool {
	return &WorkerPool{queue: queue, size: size}
}

func (p *WorkerPool) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)

		go p.work(ctx)
	}
}

// Stop lets in-flight jobs finish and abandons whatever is still
// queued. Idempotent; safe on a pool that was never started.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}

	p.wg.Wait()
}

func (p *WorkerPool) work(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}

			job.Execute()
		}
	}
}
