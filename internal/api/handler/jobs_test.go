package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/jobtracker/internal/api/handler"
	"github.com/kiranshivaraju/jobtracker/internal/store"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock store ---

type memStore struct {
	mu   sync.Mutex
	jobs map[string]*models.JobRecord
	err  error
}

func newMemStore(jobs ...*models.JobRecord) *memStore {
	s := &memStore{jobs: make(map[string]*models.JobRecord)}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *memStore) Ping(_ context.Context) error { return s.err }

func (s *memStore) ListJobs(_ context.Context) ([]*models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.JobRecord, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].DateAdded.After(out[k].DateAdded) })
	return out, nil
}

func (s *memStore) GetJob(_ context.Context, id string) (*models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return j, nil
}

func (s *memStore) CreateJob(_ context.Context, job *models.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *memStore) UpdateJob(_ context.Context, id string, u models.JobUpdate) (*models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	j.Apply(u, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	return j, nil
}

func (s *memStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.jobs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

// --- helpers ---

func seedJob(id string, added time.Time) *models.JobRecord {
	return &models.JobRecord{
		ID:              id,
		JobTitle:        "Accountant",
		CompanyName:     "Acme",
		ApplicationLink: "https://acme.example/jobs/1",
		Status:          models.JobStatusApplied,
		DateAdded:       added,
	}
}

func jobsRouter(s store.Store) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/jobs", handler.NewListJobsHandler(s))
	r.Post("/api/jobs", handler.NewCreateJobHandler(s))
	r.Get("/api/jobs/{id}", handler.NewGetJobHandler(s))
	r.Put("/api/jobs/{id}", handler.NewUpdateJobHandler(s))
	r.Delete("/api/jobs/{id}", handler.NewDeleteJobHandler(s))
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parse(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func validForm() map[string]string {
	return map[string]string{
		"jobTitle":        "  Staff Nurse ",
		"companyName":     "General Hospital",
		"applicationLink": "https://hospital.example/careers/42",
		"status":          "Interviewing",
	}
}

// --- list ---

func TestListJobs_NewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newMemStore(seedJob("old", base), seedJob("new", base.Add(time.Hour)))

	w := do(t, jobsRouter(s), http.MethodGet, "/api/jobs", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := parse(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Retrieved 2 job applications", env.Message)

	var jobs []models.JobRecord
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "old", jobs[1].ID)
}

func TestListJobs_EmptyIsArray(t *testing.T) {
	w := do(t, jobsRouter(newMemStore()), http.MethodGet, "/api/jobs", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := parse(t, w)
	assert.JSONEq(t, "[]", string(env.Data))
	assert.Equal(t, "Retrieved 0 job applications", env.Message)
}

func TestListJobs_StoreError(t *testing.T) {
	s := newMemStore()
	s.err = errors.New("disk on fire")

	w := do(t, jobsRouter(s), http.MethodGet, "/api/jobs", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := parse(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

// --- create ---

func TestCreateJob_Success(t *testing.T) {
	s := newMemStore()

	w := do(t, jobsRouter(s), http.MethodPost, "/api/jobs", validForm())

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := parse(t, w)
	assert.Equal(t, "Job application added successfully", env.Message)

	var job models.JobRecord
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Len(t, job.ID, 36)
	assert.Equal(t, "Staff Nurse", job.JobTitle)
	assert.Equal(t, models.JobStatusInterviewing, job.Status)
	assert.False(t, job.DateAdded.IsZero())
	assert.Nil(t, job.DateUpdated)

	stored, err := s.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "General Hospital", stored.CompanyName)
}

func TestCreateJob_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f map[string]string)
		message string
	}{
		{"blank title", func(f map[string]string) { f["jobTitle"] = "   " }, "All fields are required"},
		{"missing company", func(f map[string]string) { delete(f, "companyName") }, "All fields are required"},
		{"missing link", func(f map[string]string) { f["applicationLink"] = "" }, "All fields are required"},
		{"missing status", func(f map[string]string) { f["status"] = "" }, "All fields are required"},
		{"relative link", func(f map[string]string) { f["applicationLink"] = "careers/42" }, "Invalid URL"},
		{"scheme only", func(f map[string]string) { f["applicationLink"] = "https://" }, "Invalid URL"},
		{"unknown status", func(f map[string]string) { f["status"] = "Ghosted" },
			"status must be one of Applied, Interviewing, Rejected, Offer, Withdrawn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			f := validForm()
			tt.mutate(f)

			w := do(t, jobsRouter(s), http.MethodPost, "/api/jobs", f)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := parse(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.Equal(t, tt.message, env.Error.Message)
			assert.Empty(t, s.jobs)
		})
	}
}

func TestCreateJob_InvalidJSON(t *testing.T) {
	w := do(t, jobsRouter(newMemStore()), http.MethodPost, "/api/jobs", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", parse(t, w).Error.Code)
}

func TestCreateJob_StoreError(t *testing.T) {
	s := newMemStore()
	s.err = errors.New("boom")

	w := do(t, jobsRouter(s), http.MethodPost, "/api/jobs", validForm())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- get ---

func TestGetJob(t *testing.T) {
	s := newMemStore(seedJob("abc", time.Now()))

	w := do(t, jobsRouter(s), http.MethodGet, "/api/jobs/abc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := parse(t, w)
	assert.Equal(t, "Job application retrieved successfully", env.Message)
	var job models.JobRecord
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, "abc", job.ID)
}

func TestGetJob_NotFound(t *testing.T) {
	w := do(t, jobsRouter(newMemStore()), http.MethodGet, "/api/jobs/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := parse(t, w)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Job application not found", env.Error.Message)
}

// --- update ---

func TestUpdateJob_Success(t *testing.T) {
	s := newMemStore(seedJob("abc", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	w := do(t, jobsRouter(s), http.MethodPut, "/api/jobs/abc", validForm())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := parse(t, w)
	assert.Equal(t, "Job application updated successfully", env.Message)

	var job models.JobRecord
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, "Staff Nurse", job.JobTitle)
	assert.Equal(t, models.JobStatusInterviewing, job.Status)
	require.NotNil(t, job.DateUpdated)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), job.DateAdded)
}

func TestUpdateJob_InvalidURLMessage(t *testing.T) {
	s := newMemStore(seedJob("abc", time.Now()))
	f := validForm()
	f["applicationLink"] = "not a url"

	w := do(t, jobsRouter(s), http.MethodPut, "/api/jobs/abc", f)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide a valid URL for the application link", parse(t, w).Error.Message)
}

func TestUpdateJob_NotFound(t *testing.T) {
	w := do(t, jobsRouter(newMemStore()), http.MethodPut, "/api/jobs/missing", validForm())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Job application not found", parse(t, w).Error.Message)
}

func TestUpdateJob_ValidatesBeforeLookup(t *testing.T) {
	f := validForm()
	f["jobTitle"] = ""

	w := do(t, jobsRouter(newMemStore()), http.MethodPut, "/api/jobs/missing", f)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- delete ---

func TestDeleteJob(t *testing.T) {
	s := newMemStore(seedJob("abc", time.Now()))

	w := do(t, jobsRouter(s), http.MethodDelete, "/api/jobs/abc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := parse(t, w)
	assert.Equal(t, "Job application deleted successfully", env.Message)
	assert.Equal(t, "null", string(env.Data))
	assert.Empty(t, s.jobs)
}

func TestDeleteJob_NotFound(t *testing.T) {
	w := do(t, jobsRouter(newMemStore()), http.MethodDelete, "/api/jobs/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
