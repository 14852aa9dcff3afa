package store

import (
	"context"
	"errors"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the job application data access interface. All persistence goes through here.
type Store interface {
	Ping(ctx context.Context) error

	// ListJobs returns every record, newest DateAdded first.
	ListJobs(ctx context.Context) ([]*models.JobRecord, error)
	GetJob(ctx context.Context, id string) (*models.JobRecord, error)
	CreateJob(ctx context.Context, job *models.JobRecord) error
	// UpdateJob merges u into the stored record and stamps DateUpdated.
	UpdateJob(ctx context.Context, id string, u models.JobUpdate) (*models.JobRecord, error)
	DeleteJob(ctx context.Context, id string) error
}

type storeParams struct {
	now func() time.Time
}

type Option func(*storeParams)

// WithClock overrides the clock used to stamp DateUpdated.
func WithClock(now func() time.Time) Option {
	return func(p *storeParams) {
		p.now = now
	}
}

func applyOptions(opts []Option) storeParams {
	p := storeParams{now: time.Now}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
