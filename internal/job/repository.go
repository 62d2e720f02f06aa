package job

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when a job cannot be found by ID.
var ErrJobNotFound = errors.New("job not found")

// Repository persists render jobs.
type Repository interface {
	// Save inserts or replaces a job.
	Save(ctx context.Context, job *Job) error

	// FindByID returns the job with the given ID or ErrJobNotFound.
	FindByID(ctx context.Context, id string) (*Job, error)

	// List returns every job, oldest first.
	List(ctx context.Context) ([]*Job, error)

	// Delete removes a job. Returns ErrJobNotFound if the job does not exist.
	Delete(ctx context.Context, id string) error
}
