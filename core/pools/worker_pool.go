package pools

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task represents a unit of work
type Task func()

// WorkerPool runs tasks on a fixed number of goroutines fed from a single
// FIFO queue. The queue is unbounded: Submit never blocks and never rejects
// while the pool is open, so a burst of slow tasks grows the queue instead.
type WorkerPool struct {
	numWorkers int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool
	wg     sync.WaitGroup

	// Statistics
	stats struct {
		tasksSubmitted atomic.Uint64
		tasksCompleted atomic.Uint64
		tasksPanicked  atomic.Uint64
		busyWorkers    atomic.Int64
		maxQueued      atomic.Uint64
	}

	// PanicHandler, if set, receives values recovered from tasks
	PanicHandler func(recovered any)
}

// NewWorkerPool creates a pool with numWorkers goroutines
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		numWorkers: numWorkers,
		queue:      make([]Task, 0, numWorkers),
	}
	pool.cond = sync.NewCond(&pool.mu)

	pool.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pool.worker()
	}

	return pool
}

// Submit queues a task. It returns false only after Close.
func (p *WorkerPool) Submit(task Task) bool {
	if task == nil {
		return false
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, task)
	if queued := uint64(len(p.queue)); queued > p.stats.maxQueued.Load() {
		p.stats.maxQueued.Store(queued)
	}
	p.stats.tasksSubmitted.Add(1)
	p.mu.Unlock()

	p.cond.Signal()
	return true
}

// worker is the main loop for a worker goroutine
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// Closed and drained
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *WorkerPool) run(task Task) {
	p.stats.busyWorkers.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.stats.tasksPanicked.Add(1)
			if p.PanicHandler != nil {
				p.PanicHandler(r)
			}
		}
		p.stats.busyWorkers.Add(-1)
		p.stats.tasksCompleted.Add(1)
	}()

	task()
}

// Close stops accepting tasks. Queued tasks still run; Close does not wait
// for them, use Wait for that.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return // Already closed
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
}

// Wait blocks until the pool is closed and every queued task has finished
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Stats returns pool statistics
func (p *WorkerPool) Stats() WorkerPoolStats {
	p.mu.Lock()
	queued := len(p.queue)
	p.mu.Unlock()

	submitted := p.stats.tasksSubmitted.Load()
	completed := p.stats.tasksCompleted.Load()

	return WorkerPoolStats{
		NumWorkers:     p.numWorkers,
		BusyWorkers:    int(p.stats.busyWorkers.Load()),
		Queued:         queued,
		MaxQueued:      p.stats.maxQueued.Load(),
		TasksSubmitted: submitted,
		TasksCompleted: completed,
		TasksPending:   submitted - completed,
		TasksPanicked:  p.stats.tasksPanicked.Load(),
	}
}

// WorkerPoolStats contains pool statistics
type WorkerPoolStats struct {
	NumWorkers     int    `json:"num_workers"`
	BusyWorkers    int    `json:"busy_workers"`
	Queued         int    `json:"queued"`
	MaxQueued      uint64 `json:"max_queued"`
	TasksSubmitted uint64 `json:"tasks_submitted"`
	TasksCompleted uint64 `json:"tasks_completed"`
	TasksPending   uint64 `json:"tasks_pending"`
	TasksPanicked  uint64 `json:"tasks_panicked"`
}
