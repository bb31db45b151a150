package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/render"
)

// HealthResponse is the payload of GET /healthz.
type HealthResponse struct {
	Status       string    `json:"status"`
	Time         time.Time `json:"time"`
	ReportExists bool      `json:"report_exists"`
	ReportTime   string    `json:"report_time,omitempty"`
}

// HealthHandler reports process liveness plus the state of the report
// artifact on disk.
type HealthHandler struct {
	reportPath string
	logger     *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(reportPath string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		reportPath: reportPath,
		logger:     logger.With(slog.String("handler", "health")),
	}
}

// Check handles GET /healthz
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC(),
	}
	if info, err := os.Stat(h.reportPath); err == nil {
		resp.ReportExists = true
		resp.ReportTime = info.ModTime().UTC().Format(time.RFC3339)
	}
	render.JSON(w, r, resp)
}
