package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
	"github.com/kiranshivaraju/jobtracker/internal/store"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const (
	msgFieldsRequired = "All fields are required"
	msgJobNotFound    = "Job application not found"
)

// jobForm is the request body of POST /api/jobs and PUT /api/jobs/{id}.
type jobForm struct {
	JobTitle        string `json:"jobTitle"`
	CompanyName     string `json:"companyName"`
	ApplicationLink string `json:"applicationLink"`
	Status          string `json:"status"`
}

// validate trims the form and returns the update it describes. badURL is the
// message reported for an unusable application link.
func (f jobForm) validate(badURL string) (models.JobUpdate, string) {
	u := models.JobUpdate{
		JobTitle:        strings.TrimSpace(f.JobTitle),
		CompanyName:     strings.TrimSpace(f.CompanyName),
		ApplicationLink: strings.TrimSpace(f.ApplicationLink),
	}
	if u.JobTitle == "" || u.CompanyName == "" || u.ApplicationLink == "" || strings.TrimSpace(f.Status) == "" {
		return u, msgFieldsRequired
	}
	if !isAbsoluteURL(u.ApplicationLink) {
		return u, badURL
	}
	status, err := models.ParseJobStatus(strings.TrimSpace(f.Status))
	if err != nil {
		return u, fmt.Sprintf("status must be one of %s, %s, %s, %s, %s",
			models.JobStatusApplied, models.JobStatusInterviewing, models.JobStatusRejected,
			models.JobStatusOffer, models.JobStatusWithdrawn)
	}
	u.Status = status
	return u, ""
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func decodeForm(w http.ResponseWriter, r *http.Request) (jobForm, bool) {
	var f jobForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&f); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return f, false
	}
	return f, true
}

func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error("job store failure", "op", op, "path", r.URL.Path, "error", err)
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/jobs.
func NewListJobsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := s.ListJobs(r.Context())
		if err != nil {
			internalError(w, r, "list", err)
			return
		}
		if jobs == nil {
			jobs = []*models.JobRecord{}
		}
		response.JSON(w, jobs, fmt.Sprintf("Retrieved %d job applications", len(jobs)))
	}
}

// NewCreateJobHandler returns an http.HandlerFunc for POST /api/jobs.
func NewCreateJobHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := decodeForm(w, r)
		if !ok {
			return
		}
		u, msg := f.validate("Invalid URL")
		if msg != "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
			return
		}

		job := &models.JobRecord{
			ID:              uuid.NewString(),
			JobTitle:        u.JobTitle,
			CompanyName:     u.CompanyName,
			ApplicationLink: u.ApplicationLink,
			Status:          u.Status,
			DateAdded:       time.Now().UTC(),
		}
		if err := s.CreateJob(r.Context(), job); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "CONFLICT", "Job application already exists", nil)
				return
			}
			internalError(w, r, "create", err)
			return
		}
		response.Created(w, job, "Job application added successfully")
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/jobs/{id}.
func NewGetJobHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := s.GetJob(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", msgJobNotFound, nil)
				return
			}
			internalError(w, r, "get", err)
			return
		}
		response.JSON(w, job, "Job application retrieved successfully")
	}
}

// NewUpdateJobHandler returns an http.HandlerFunc for PUT /api/jobs/{id}.
func NewUpdateJobHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := decodeForm(w, r)
		if !ok {
			return
		}
		u, msg := f.validate("Please provide a valid URL for the application link")
		if msg != "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
			return
		}

		job, err := s.UpdateJob(r.Context(), chi.URLParam(r, "id"), u)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", msgJobNotFound, nil)
				return
			}
			internalError(w, r, "update", err)
			return
		}
		response.JSON(w, job, "Job application updated successfully")
	}
}

// NewDeleteJobHandler returns an http.HandlerFunc for DELETE /api/jobs/{id}.
func NewDeleteJobHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", msgJobNotFound, nil)
				return
			}
			internalError(w, r, "delete", err)
			return
		}
		response.JSON(w, nil, "Job application deleted successfully")
	}
}
