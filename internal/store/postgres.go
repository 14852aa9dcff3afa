package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const jobColumns = `id, job_title, company_name, application_link, status, date_added, date_updated`

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool   *pgxpool.Pool
	params storeParams
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...Option) *PostgresStore {
	return &PostgresStore{pool: pool, params: applyOptions(opts)}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) ListJobs(ctx context.Context) ([]*models.JobRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_applications ORDER BY date_added DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.JobRecord{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*models.JobRecord, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.JobRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO job_applications (`+jobColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.JobTitle, job.CompanyName, job.ApplicationLink, string(job.Status), job.DateAdded, job.DateUpdated)
	if isDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateJob(ctx context.Context, id string, u models.JobUpdate) (*models.JobRecord, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`UPDATE job_applications
		 SET job_title = $2, company_name = $3, application_link = $4, status = $5, date_updated = $6
		 WHERE id = $1
		 RETURNING `+jobColumns,
		id, u.JobTitle, u.CompanyName, u.ApplicationLink, string(u.Status), s.params.now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*models.JobRecord, error) {
	var j models.JobRecord
	var status string
	if err := row.Scan(&j.ID, &j.JobTitle, &j.CompanyName, &j.ApplicationLink, &status,
		&j.DateAdded, &j.DateUpdated); err != nil {
		return nil, err
	}
	j.Status = models.JobStatus(status)
	return &j, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
