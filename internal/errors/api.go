package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured error response on the admin HTTP surface
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined error responses for the admin surface
var (
	// 409 Conflict: a run is already in progress, trigger skipped
	ErrUpdateInProgress = New(http.StatusConflict, "UPDATE_IN_PROGRESS", "an update run is already in progress")

	// 503 Service Unavailable: the triggered run failed
	ErrUpdateFailed = New(http.StatusServiceUnavailable, "UPDATE_FAILED", "update run failed, see logs")
)
