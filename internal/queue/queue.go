// Package queue defines the hand-off between the API process and the
// out-of-process enrichment worker. Delivery is at-least-once; consumers
// must tolerate duplicate jobs.
package queue

import (
	"context"

	"github.com/google/uuid"
)

// Job is one metadata-enrichment task for a link.
type Job struct {
	ID     uuid.UUID `json:"id"`
	LinkID int64     `json:"link_id"`
	URL    string    `json:"url"`
}

// NewJob creates a job with a fresh ID for the given link.
func NewJob(linkID int64, url string) Job {
	return Job{ID: uuid.New(), LinkID: linkID, URL: url}
}

// Queue is the task-queue boundary. Enqueue is fire-and-forget from the
// producer's perspective; Dequeue blocks for a bounded time and returns
// (nil, nil) when no job arrived.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (*Job, error)
}
