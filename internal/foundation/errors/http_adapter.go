package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter writes classified errors as JSON responses (used by the preview server).
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates an adapter; logger defaults to slog.Default().
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload.
type HTTPErrorResponse struct {
	Error    string         `json:"error"`
	Category string         `json:"category,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// StatusCodeFor maps err to an HTTP status.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	ce, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ce.Category() {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryConfig, CategoryContent, CategoryData, CategoryRender, CategoryBuild:
		return http.StatusUnprocessableEntity
	case CategoryPreview, CategoryRuntime:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse logs err and writes it as JSON.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	payload := HTTPErrorResponse{Error: "unknown error"}
	if err != nil {
		payload.Error = err.Error()
	}
	if ce, ok := AsClassified(err); ok {
		payload.Error = ce.Message()
		payload.Category = string(ce.Category())
		if len(ce.Context()) > 0 {
			payload.Details = ce.Context()
		}
	}
	a.logger.Warn("Request failed", "path", r.URL.Path, "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
