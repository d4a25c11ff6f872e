package intake

import (
	"context"
	"errors"
	"time"

	"github.com/leejgdh/youtube-dj/internal/queue"
)

var (
	ErrBanned  = errors.New("song is banned")
	ErrStopped = errors.New("intake queue stopped")
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job is one song request waiting to be prepared for the queue.
type Job struct {
	ID          string
	Request     queue.SongRequest
	Status      JobStatus
	Result      queue.SongRequest
	Err         error
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	done chan struct{}
}

// Handler prepares a job. It writes the finished request to job.Result.
type Handler func(ctx context.Context, job *Job) error

type Stats struct {
	Workers   int    `json:"workers"`
	Backlog   int    `json:"backlog"`
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
	Rejected  uint64 `json:"rejected"`
}
