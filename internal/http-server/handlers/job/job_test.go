package job

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	executed *atomic.Int64
	done     chan struct{}
}

func (j countingJob) Execute() {
	j.executed.Add(1)
	j.done <- struct{}{}
}

func TestWorkerPoolExecutesQueuedJobs(t *testing.T) {
	queue := make(JobQueue, 8)

	pool := NewWorkerPool(2, queue)
	pool.Start()

	var executed atomic.Int64

	done := make(chan struct{}, 3)

	for i := 0; i < 3; i++ {
		queue <- countingJob{executed: &executed, done: done}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("job did not run")
		}
	}

	assert.Equal(t, int64(3), executed.Load())

	pool.Stop()
}

func TestWorkerPoolStopIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2, make(JobQueue))
	pool.Start()

	pool.Stop()
	pool.Stop()
}

func TestWorkerPoolStopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWorkerPool(1, make(JobQueue)).Stop()
	})
}
