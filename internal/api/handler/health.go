package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/api/response"
)

const healthTimeout = 2 * time.Second

// Pinger is anything whose connectivity can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler checks store and cache connectivity. A nil cache is reported as disabled.
func NewHealthHandler(s Pinger, c Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		checks := map[string]string{
			"store": "ok",
			"cache": "ok",
		}

		if err := s.Ping(ctx); err != nil {
			checks["store"] = "degraded"
		}
		if c == nil {
			checks["cache"] = "disabled"
		} else if err := c.Ping(ctx); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["store"] == "degraded" || checks["cache"] == "degraded" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		}, "")
	}
}
