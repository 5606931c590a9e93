package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flexcard/internal/card/models"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
	"flexcard/pkg/platform/httputil"
	authmw "flexcard/pkg/platform/middleware/auth"
	request "flexcard/pkg/platform/middleware/request"
)

// CardService is the subset of the card service the HTTP layer drives.
type CardService interface {
	Status(ctx context.Context, cardID id.CardID) (*models.CardStatus, error)
	Activate(ctx context.Context, cardID id.CardID, userID id.UserID) (*models.ActivationResult, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Card, error)
	Provision(ctx context.Context, req models.ProvisionRequest) (*models.ProvisionResult, error)
}

type Handler struct {
	service CardService
	logger  *slog.Logger
}

func New(service CardService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the anonymous card routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cards/{card_id}", h.HandleStatus)
}

// RegisterAuthenticated mounts routes that expect RequireAuth upstream.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/cards/{card_id}/activate", h.HandleActivate)
	r.Get("/me/cards", h.HandleListMine)
}

// RegisterAdmin mounts routes that expect RequireAdminToken upstream.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.With(request.ContentTypeJSON).Post("/admin/cards", h.HandleProvision)
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), id.CardID(chi.URLParam(r, "card_id")))
	if err != nil {
		h.writeError(w, r, "card status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := authmw.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	result, err := h.service.Activate(ctx, id.CardID(chi.URLParam(r, "card_id")), userID)
	if err != nil {
		h.writeError(w, r, "activate card", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type cardResponse struct {
	CardID      id.CardID   `json:"card_id"`
	Username    id.Username `json:"username"`
	ActivatedAt *time.Time  `json:"activated_at,omitempty"`
	BatchName   string      `json:"batch_name,omitempty"`
}

type listCardsResponse struct {
	Cards []cardResponse `json:"cards"`
}

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := authmw.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	cards, err := h.service.ListByUser(ctx, userID)
	if err != nil {
		h.writeError(w, r, "list cards", err)
		return
	}
	resp := listCardsResponse{Cards: make([]cardResponse, 0, len(cards))}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, cardResponse{
			CardID:      c.ID,
			Username:    c.BoundUsername,
			ActivatedAt: c.ActivatedAt,
			BatchName:   c.BatchName,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type provisionRequest struct {
	CardIDs   []string `json:"card_ids"`
	Count     int      `json:"count"`
	BatchName string   `json:"batch_name"`
}

func (h *Handler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req provisionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	result, err := h.service.Provision(r.Context(), models.ProvisionRequest{
		CardIDs:   req.CardIDs,
		Count:     req.Count,
		BatchName: req.BatchName,
	})
	if err != nil {
		h.writeError(w, r, "provision cards", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
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
