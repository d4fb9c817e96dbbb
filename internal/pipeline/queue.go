package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wandb/parallel"
)

// ErrQueueFull is returned by Enqueue when too many tasks are pending or
// running.
var ErrQueueFull = errors.New("pipeline: queue full")

// Processor runs the pipeline for one request.
type Processor interface {
	Process(ctx context.Context, req Request) (*Result, error)
}

// NewQueue returns a Queue running tasks on at most workers goroutines,
// rejecting new tasks once depth are pending or running, and bounding each
// task's run with deadline when non-zero.
func NewQueue(processor Processor, workers int, depth int, deadline time.Duration) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		processor: processor,
		depth:     depth,
		deadline:  deadline,
		tasks:     make(map[string]*Task),
		exec:      parallel.Limited(ctx, workers),
		cancel:    cancel,
	}
}

// Queue accepts analysis requests and runs them to completion in the
// background. Task records survive for the life of the process and are
// queryable by ID.
type Queue struct {
	processor Processor
	depth     int
	deadline  time.Duration
	exec      parallel.Executor
	cancel    context.CancelFunc

	mu     sync.Mutex
	tasks  map[string]*Task
	active int
	closed bool
}

// Enqueue registers a task for the request and begins running it in the
// background, returning the task record immediately.
func (q *Queue) Enqueue(sourceURL string, language string, notifyToken string) (*Task, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, errors.New("pipeline: queue closed")
	}
	if q.active >= q.depth {
		q.mu.Unlock()
		return nil, ErrQueueFull
	}
	task := &Task{
		ID:          uuid.NewString(),
		SourceURL:   sourceURL,
		Language:    language,
		NotifyToken: notifyToken,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	q.tasks[task.ID] = task
	q.active++
	q.mu.Unlock()

	q.exec.Go(func(ctx context.Context) {
		q.run(ctx, task.ID)
	})
	return task.clone(), nil
}

// Task returns a copy of the task with the given ID.
func (q *Queue) Task(id string) (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.tasks[id]
	if !ok {
		return nil, false
	}
	return task.clone(), true
}

// Close waits for running tasks to finish. The queue accepts no further
// tasks.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.exec.Wait()
	q.cancel()
}

func (q *Queue) run(ctx context.Context, id string) {
	q.mu.Lock()
	task := q.tasks[id]
	task.Status = StatusRunning
	task.StartedAt = time.Now()
	req := Request{
		SourceURL:   task.SourceURL,
		Language:    task.Language,
		NotifyToken: task.NotifyToken,
	}
	q.mu.Unlock()

	if q.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.deadline)
		defer cancel()
	}

	res, err := q.processor.Process(ctx, req)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.active--
	task.FinishedAt = time.Now()
	if err != nil {
		task.Status = StatusFailed
		task.Error = err.Error()
		return
	}
	task.Status = StatusCompleted
	task.RecipeID = res.RecipeID
	task.Degraded = res.Degraded
}
