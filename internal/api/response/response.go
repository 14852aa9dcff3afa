package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// analysisEnvelope carries the fallback flag alongside the result(s).
type analysisEnvelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data"`
	Fallback bool   `json:"fallback"`
	Note     string `json:"note,omitempty"`
	Message  string `json:"message,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func Created(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

// Message writes a 200 with no data, used for usage hints.
func Message(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, message})
}

// Analysis writes a 200 analysis response. data is a single result or a slice.
func Analysis(w http.ResponseWriter, data any, fallback bool, note, message string) {
	writeJSON(w, http.StatusOK, analysisEnvelope{
		Success:  true,
		Data:     data,
		Fallback: fallback,
		Note:     note,
		Message:  message,
	})
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// MethodNotAllowed writes a 405 listing the allowed methods.
func MethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}
