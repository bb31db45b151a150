package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apperrors "eiareport/internal/errors"
)

// UpdateTrigger runs one update and reports completion, or ErrRunInProgress
// when another run holds the guard.
type UpdateTrigger interface {
	TryRunUpdate(ctx context.Context) (bool, error)
}

// UpdateHandler handles the on-demand update trigger.
type UpdateHandler struct {
	trigger UpdateTrigger
	logger  *slog.Logger
}

// NewUpdateHandler creates a new update handler.
func NewUpdateHandler(trigger UpdateTrigger, logger *slog.Logger) *UpdateHandler {
	return &UpdateHandler{
		trigger: trigger,
		logger:  logger.With(slog.String("handler", "update")),
	}
}

// Trigger handles POST /api/update. The run executes synchronously: the
// response tells the caller whether the report was actually refreshed.
func (h *UpdateHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ok, err := h.trigger.TryRunUpdate(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRunInProgress) {
			render.Render(w, r, apperrors.ErrUpdateInProgress)
			return
		}
		h.logger.ErrorContext(r.Context(), "update trigger failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apperrors.ErrUpdateFailed)
		return
	}
	if !ok {
		render.Render(w, r, apperrors.ErrUpdateFailed)
		return
	}
	render.JSON(w, r, map[string]string{"status": "completed"})
}
