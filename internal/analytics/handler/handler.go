package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flexcard/internal/analytics/models"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
	"flexcard/pkg/platform/httputil"
	authmw "flexcard/pkg/platform/middleware/auth"
	request "flexcard/pkg/platform/middleware/request"
)

type SummaryService interface {
	Summary(ctx context.Context, userID id.UserID) (*models.Summary, error)
}

type ClickRecorder interface {
	RecordClick(ctx context.Context, username id.Username, linkID string)
}

type Handler struct {
	summaries SummaryService
	clicks    ClickRecorder
	logger    *slog.Logger
}

func New(summaries SummaryService, clicks ClickRecorder, logger *slog.Logger) *Handler {
	return &Handler{summaries: summaries, clicks: clicks, logger: logger}
}

// Register mounts the anonymous click beacon.
func (h *Handler) Register(r chi.Router) {
	r.Post("/public/{username}/click/{link_id}", h.HandleClick)
}

// RegisterAuthenticated mounts routes that expect RequireAuth upstream.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/me/analytics", h.HandleSummary)
}

// HandleClick always answers 204: the outcome of counting is not the
// visitor's concern and must not reveal which links exist.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	h.clicks.RecordClick(r.Context(), id.Username(chi.URLParam(r, "username")), chi.URLParam(r, "link_id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := authmw.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	summary, err := h.summaries.Summary(ctx, userID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "analytics summary failed",
				"error", err,
				"request_id", request.GetRequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
