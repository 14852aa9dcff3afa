package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kiranshivaraju/jobtracker/internal/api/response"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const maxBodyBytes = 1 << 20

const (
	noteBatch    = "Batch -> used local analysis"
	noteBatchGET = "Batch GET -> used local analysis"
	msgUsage     = `Send POST { "jobDescription": "..." } or GET ?jobDescription=...`
	msgRecovered = "Unexpected server error; returned local fallback."
)

// Analyzer defines the interface the analyze handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, text string, localOnly bool) models.AnalysisResult
	AnalyzeBatch(ctx context.Context, texts []string) []models.AnalysisResult
	Local(text string) models.AnalysisResult
}

// NewAnalyzeHandler returns an http.HandlerFunc serving GET and POST /api/analyze.
func NewAnalyzeHandler(a Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var descs []string
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("analyze panic recovered", "error", rec, "stack", string(debug.Stack()))
				first := ""
				if len(descs) > 0 {
					first = descs[0]
				}
				response.Analysis(w, a.Local(first), true, "", msgRecovered)
			}
		}()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable request body", nil)
			return
		}
		descs = extractDescriptions(body, r.URL.Query()["jobDescription"])

		if r.Method == http.MethodGet {
			if len(descs) == 0 {
				response.Message(w, msgUsage)
				return
			}
			response.Analysis(w, a.AnalyzeBatch(r.Context(), descs), true, noteBatchGET, "")
			return
		}

		switch len(descs) {
		case 0:
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"jobDescription is required (string or array)", nil)
		case 1:
			res := a.Analyze(r.Context(), descs[0], false)
			response.Analysis(w, res, res.Fallback, "", "")
		default:
			response.Analysis(w, a.AnalyzeBatch(r.Context(), descs), true, noteBatch, "")
		}
	}
}

// extractDescriptions looks for descriptions in the JSON body's jobDescription
// field, then the query parameters, then a non-JSON text body.
func extractDescriptions(body []byte, query []string) []string {
	trimmed := bytes.TrimSpace(body)

	var obj map[string]json.RawMessage
	isObject := json.Unmarshal(trimmed, &obj) == nil && obj != nil
	if isObject {
		if descs, ok := fieldDescriptions(obj["jobDescription"]); ok {
			return descs
		}
	}
	if len(query) > 0 {
		return query
	}
	if isObject || len(trimmed) == 0 {
		return nil
	}
	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	if json.Valid(trimmed) {
		return nil
	}
	return []string{string(body)}
}

// fieldDescriptions decodes a jobDescription value: a string, an array, or
// any other non-empty scalar. Absent, null and "" mean not present.
func fieldDescriptions(raw json.RawMessage) ([]string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return nil, false
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		if s == "" {
			return nil, false
		}
		return []string{s}, true
	}

	var items []json.RawMessage
	if json.Unmarshal(raw, &items) == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, stringify(it))
		}
		return out, true
	}

	return []string{stringify(raw)}, true
}

func stringify(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
