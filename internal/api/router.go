package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/kiranshivaraju/jobtracker/internal/api/middleware"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	// RateLimit is optional; nil disables rate limiting.
	RateLimit *mw.RateLimit

	HealthHandler  http.HandlerFunc
	AnalyzeHandler http.HandlerFunc

	ListJobs  http.HandlerFunc
	CreateJob http.HandlerFunc
	GetJob    http.HandlerFunc
	UpdateJob http.HandlerFunc
	DeleteJob http.HandlerFunc

	// Metrics defaults to the prometheus default gatherer.
	Metrics http.Handler
}

var routeMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.MethodNotAllowed(w, allowedMethods(r, req.URL.Path))
	})

	r.Get("/api/health", orNotImplemented(deps.HealthHandler))

	metrics := deps.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Get("/api/jobs", orNotImplemented(deps.ListJobs))
		r.Post("/api/jobs", orNotImplemented(deps.CreateJob))
		r.Get("/api/jobs/{id}", orNotImplemented(deps.GetJob))
		r.Put("/api/jobs/{id}", orNotImplemented(deps.UpdateJob))
		r.Delete("/api/jobs/{id}", orNotImplemented(deps.DeleteJob))

		r.Get("/api/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Post("/api/analyze", orNotImplemented(deps.AnalyzeHandler))
	})

	return r
}

// allowedMethods lists the methods routed for path, for the Allow header.
func allowedMethods(routes chi.Routes, path string) string {
	var allow []string
	for _, m := range routeMethods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			allow = append(allow, m)
		}
	}
	return strings.Join(allow, ", ")
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
