// Package intake prepares incoming song requests before they reach the
// playlist: video id extraction, ban list lookup and metadata resolution.
package intake

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leejgdh/youtube-dj/internal/queue"
	"go.uber.org/zap"
)

const (
	backlogSize = 100
	jobTimeout  = 10 * time.Second
)

// Queue runs a fixed pool of workers over a bounded backlog.
type Queue struct {
	mu      sync.Mutex
	pending chan *Job
	cancels map[string]context.CancelFunc
	handler Handler
	workers int
	log     *zap.Logger

	completed uint64
	failed    uint64
	rejected  uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQueue creates and starts a queue with the given number of workers.
func NewQueue(workers int, handler Handler, log *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		pending: make(chan *Job, backlogSize),
		cancels: make(map[string]context.CancelFunc),
		handler: handler,
		workers: workers,
		log:     log.Named("intake"),
		ctx:     ctx,
		cancel:  cancel,
	}

	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.worker()
	}
	return q
}

// Submit enqueues a request and waits for the prepared result.
func (q *Queue) Submit(ctx context.Context, req queue.SongRequest) (queue.SongRequest, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}

	select {
	case q.pending <- job:
	case <-ctx.Done():
		return queue.SongRequest{}, ctx.Err()
	case <-q.ctx.Done():
		return queue.SongRequest{}, ErrStopped
	}

	select {
	case <-job.done:
		return job.Result, job.Err
	case <-ctx.Done():
		q.cancelJob(job.ID)
		return queue.SongRequest{}, ctx.Err()
	case <-q.ctx.Done():
		return queue.SongRequest{}, ErrStopped
	}
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Workers:   q.workers,
		Backlog:   len(q.pending),
		Completed: q.completed,
		Failed:    q.failed,
		Rejected:  q.rejected,
	}
}

// Stop shuts the workers down and waits for them to exit.
func (q *Queue) Stop() {
	q.cancel()
	q.wg.Wait()
}

func (q *Queue) cancelJob(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if cancelFn, ok := q.cancels[id]; ok {
		cancelFn()
		delete(q.cancels, id)
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.pending:
			q.process(job)
		}
	}
}

func (q *Queue) process(job *Job) {
	ctx, cancelFn := context.WithTimeout(q.ctx, jobTimeout)
	q.mu.Lock()
	q.cancels[job.ID] = cancelFn
	q.mu.Unlock()

	now := time.Now()
	job.StartedAt = &now
	job.Status = StatusRunning

	err := q.handler(ctx, job)

	q.mu.Lock()
	delete(q.cancels, job.ID)
	switch {
	case err == nil:
		job.Status = StatusCompleted
		q.completed++
	case errors.Is(err, ErrBanned):
		job.Status = StatusFailed
		q.rejected++
	case ctx.Err() != nil:
		job.Status = StatusCancelled
		q.failed++
	default:
		job.Status = StatusFailed
		q.failed++
	}
	q.mu.Unlock()
	cancelFn()

	done := time.Now()
	job.CompletedAt = &done
	job.Err = err
	if err != nil && !errors.Is(err, ErrBanned) {
		q.log.Warn("job failed", zap.String("job_id", job.ID), zap.String("status", string(job.Status)), zap.Error(err))
	}
	close(job.done)
}
