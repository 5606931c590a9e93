package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	analyticsmodels "flexcard/internal/analytics/models"
	cardmodels "flexcard/internal/card/models"
	"flexcard/internal/resolution/models"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
	"flexcard/pkg/platform/httputil"
	request "flexcard/pkg/platform/middleware/request"
	"flexcard/pkg/requestcontext"
)

type ResolutionService interface {
	ResolveCard(ctx context.Context, cardID id.CardID, visit analyticsmodels.Visit) (*models.Resolution, error)
	ResolveUsername(ctx context.Context, username id.Username, visit analyticsmodels.Visit) (*models.Resolution, error)
	ResolveUsernameWithCard(ctx context.Context, username id.Username, cardID id.CardID, visit analyticsmodels.Visit) (*models.Resolution, error)
}

type Handler struct {
	service ResolutionService
	logger  *slog.Logger
}

func New(service ResolutionService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public resolution routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cards/{card_id}/profile", h.HandleResolveCard)
	r.Get("/public/{username}", h.HandleResolveUsername)
	r.Get("/public/{username}/card/{card_id}", h.HandleResolveUsernameWithCard)
}

// profileResponse always carries links, even when empty.
type profileResponse struct {
	Status  cardmodels.CardState  `json:"status"`
	CardID  id.CardID             `json:"card_id,omitempty"`
	Profile *models.PublicProfile `json:"profile"`
	Links   []models.PublicLink   `json:"links"`
}

type unactivatedResponse struct {
	Status cardmodels.CardState `json:"status"`
	CardID id.CardID            `json:"card_id"`
}

func (h *Handler) HandleResolveCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.ResolveCard(ctx, id.CardID(chi.URLParam(r, "card_id")), visitFrom(ctx))
	if err != nil {
		h.writeError(w, r, "resolve card", err)
		return
	}
	if res.Status != cardmodels.CardStateActivated {
		httputil.WriteJSON(w, http.StatusOK, unactivatedResponse{Status: res.Status, CardID: res.CardID})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(res))
}

func (h *Handler) HandleResolveUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.ResolveUsername(ctx, id.Username(chi.URLParam(r, "username")), visitFrom(ctx))
	if err != nil {
		h.writeError(w, r, "resolve username", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(res))
}

func (h *Handler) HandleResolveUsernameWithCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.ResolveUsernameWithCard(ctx,
		id.Username(chi.URLParam(r, "username")),
		id.CardID(chi.URLParam(r, "card_id")),
		visitFrom(ctx),
	)
	if err != nil {
		h.writeError(w, r, "resolve username with card", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(res))
}

func toProfileResponse(res *models.Resolution) profileResponse {
	links := res.Links
	if links == nil {
		links = []models.PublicLink{}
	}
	return profileResponse{
		Status:  res.Status,
		CardID:  res.CardID,
		Profile: res.Profile,
		Links:   links,
	}
}

// visitFrom reads the request metadata captured by ClientMetadata.
func visitFrom(ctx context.Context) analyticsmodels.Visit {
	return analyticsmodels.Visit{
		UserAgent: requestcontext.UserAgent(ctx),
		Referer:   requestcontext.Referer(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), op+" failed",
			"error", err,
			"request_id", request.GetRequestID(r.Context()),
		)
	}
	httputil.WriteError(w, err)
}
