package meshing

import (
	"runtime"

	"voxmesh/internal/world"

	"github.com/alitto/pond/v2"
)

// Task is a handle to work running on a pool. Done is closed once the work
// has finished; Wait returns its error and may be called any number of times.
type Task interface {
	Done() <-chan struct{}
	Wait() error
}

// WorkerPool runs meshing work on a bounded set of goroutines.
type WorkerPool struct {
	pool    pond.Pool
	workers int
}

// NewWorkerPool creates a new mesh worker pool. workers <= 0 uses one
// worker per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		pool:    pond.NewPool(workers),
		workers: workers,
	}
}

// Go schedules fn. A panic inside fn is recovered by the pool and reported
// through Wait.
func (p *WorkerPool) Go(fn func() error) Task {
	return p.pool.SubmitErr(fn)
}

// Submit schedules one chunk mesh. The task owns per and m until it is
// done; the caller must not touch either before then.
func (p *WorkerPool) Submit(alg Algorithm, per *world.Perimeter, m *Mesh) Task {
	return p.pool.Submit(func() {
		alg.Build(per, m)
	})
}

// Workers returns the concurrency limit.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Running returns the number of worker goroutines currently active.
func (p *WorkerPool) Running() int64 {
	return p.pool.RunningWorkers()
}

// Waiting returns the number of tasks queued but not yet started.
func (p *WorkerPool) Waiting() uint64 {
	return p.pool.WaitingTasks()
}

// Shutdown waits for every submitted task to finish and stops the workers.
// Tasks are never cancelled.
func (p *WorkerPool) Shutdown() {
	p.pool.StopAndWait()
}
