package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobtracker/internal/store"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var updateTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return updateTime }

func newJob(title string, added time.Time) *models.JobRecord {
	return &models.JobRecord{
		ID:              uuid.NewString(),
		JobTitle:        title,
		CompanyName:     "Acme",
		ApplicationLink: "https://jobs.example.com/" + title,
		Status:          models.JobStatusApplied,
		DateAdded:       added.UTC().Truncate(time.Microsecond),
	}
}

// runStoreSuite exercises the Store contract; every implementation must pass it.
// s must be empty and built with store.WithClock(fixedClock).
func runStoreSuite(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty list", func(t *testing.T) {
		jobs, err := s.ListJobs(ctx)
		require.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NotNil(t, jobs)
	})

	older := newJob("older", base)
	newer := newJob("newer", base.Add(48*time.Hour))
	middle := newJob("middle", base.Add(24*time.Hour))

	t.Run("create and list newest first", func(t *testing.T) {
		for _, j := range []*models.JobRecord{older, newer, middle} {
			require.NoError(t, s.CreateJob(ctx, j))
		}
		jobs, err := s.ListJobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, 3)
		assert.Equal(t, []string{"newer", "middle", "older"},
			[]string{jobs[0].JobTitle, jobs[1].JobTitle, jobs[2].JobTitle})
	})

	t.Run("duplicate id", func(t *testing.T) {
		dup := *older
		assert.ErrorIs(t, s.CreateJob(ctx, &dup), store.ErrDuplicateKey)
	})

	t.Run("get", func(t *testing.T) {
		got, err := s.GetJob(ctx, middle.ID)
		require.NoError(t, err)
		assert.Equal(t, "middle", got.JobTitle)
		assert.True(t, middle.DateAdded.Equal(got.DateAdded))
		assert.Nil(t, got.DateUpdated)

		_, err = s.GetJob(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		got, err := s.UpdateJob(ctx, older.ID, models.JobUpdate{
			JobTitle:        "older (edited)",
			CompanyName:     "Acme Corp",
			ApplicationLink: "https://jobs.example.com/edited",
			Status:          models.JobStatusInterviewing,
		})
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)
		assert.Equal(t, "older (edited)", got.JobTitle)
		assert.Equal(t, models.JobStatusInterviewing, got.Status)
		assert.True(t, older.DateAdded.Equal(got.DateAdded))
		require.NotNil(t, got.DateUpdated)
		assert.True(t, updateTime.Equal(*got.DateUpdated))

		again, err := s.GetJob(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", again.CompanyName)

		_, err = s.UpdateJob(ctx, "missing", models.JobUpdate{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteJob(ctx, newer.ID))
		assert.ErrorIs(t, s.DeleteJob(ctx, newer.ID), store.ErrNotFound)

		jobs, err := s.ListJobs(ctx)
		require.NoError(t, err)
		assert.Len(t, jobs, 2)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}
