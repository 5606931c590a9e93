package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"flexcard/internal/card/metrics"
	"flexcard/internal/card/models"
	profilemodels "flexcard/internal/profile/models"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
	"flexcard/pkg/platform/sentinel"
	"flexcard/pkg/platform/strings"
	"flexcard/pkg/requestcontext"
)

// CardStore is the card registry port.
type CardStore interface {
	FindByID(ctx context.Context, cardID id.CardID) (*models.Card, error)
	CreateIfAbsent(ctx context.Context, card *models.Card) (*models.Card, bool, error)
	ActivateIfUnactivated(ctx context.Context, cardID id.CardID, username id.Username, userID id.UserID, at time.Time) (*models.Card, error)
	ProvisionBatch(ctx context.Context, cards []*models.Card) ([]id.CardID, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Card, error)
}

// ProfileLookup answers "which profile does this user own".
type ProfileLookup interface {
	FindByUserID(ctx context.Context, userID id.UserID) (*profilemodels.Profile, error)
}

// Service owns the card lifecycle: status, activation, provisioning.
type Service struct {
	cards         CardStore
	profiles      ProfileLookup
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	publicBaseURL string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPublicBaseURL sets the origin used to build public profile URLs.
func WithPublicBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.publicBaseURL = baseURL
	}
}

// New constructs a Service.
func New(cards CardStore, profiles ProfileLookup, opts ...Option) (*Service, error) {
	if cards == nil {
		return nil, fmt.Errorf("card store is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile lookup is required")
	}
	s := &Service{
		cards:    cards,
		profiles: profiles,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("flexcard/card"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Status reports whether a scanned card is bound and to whom.
func (s *Service) Status(ctx context.Context, cardID id.CardID) (*models.CardStatus, error) {
	card, err := s.find(ctx, cardID)
	if err != nil {
		return nil, err
	}
	status := &models.CardStatus{Status: card.State, CardID: card.ID}
	if card.IsActivated() {
		status.Username = card.BoundUsername
		status.RedirectTo = "/public/" + card.BoundUsername.String()
	} else {
		status.RedirectTo = "/activate/" + card.ID.String()
	}
	return status, nil
}

// Activate binds an unactivated card to the caller's profile. The binding
// is permanent: a bound card reports already_activated to everyone,
// including its owner.
func (s *Service) Activate(ctx context.Context, cardID id.CardID, userID id.UserID) (*models.ActivationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "card.Activate", trace.WithAttributes(
		attribute.String("card.id", id.CanonicalCardID(cardID.String()).String()),
	))
	defer span.End()

	result, outcome, err := s.activate(ctx, cardID, userID)
	s.observeActivation(outcome, start)
	if err != nil {
		if outcome == metrics.OutcomeError {
			span.RecordError(err)
			span.SetStatus(codes.Error, "activation failed")
		}
		span.SetAttributes(attribute.String("card.outcome", outcome))
		return nil, err
	}

	span.SetAttributes(attribute.String("card.outcome", outcome))
	s.logger.InfoContext(ctx, "card activated",
		"card_id", result.CardID,
		"username", result.Username,
		"user_id", userID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

func (s *Service) activate(ctx context.Context, cardID id.CardID, userID id.UserID) (*models.ActivationResult, string, error) {
	card, err := s.find(ctx, cardID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeCardNotFound) {
			return nil, metrics.OutcomeNotFound, err
		}
		return nil, metrics.OutcomeError, err
	}
	if err := card.CanActivate(); err != nil {
		return nil, metrics.OutcomeAlreadyActive, err
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, metrics.OutcomeProfileRequired, dErrors.New(dErrors.CodeProfileRequired, "create a profile before activating a card")
		}
		return nil, metrics.OutcomeError, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if profile.Username.IsEmpty() {
		return nil, metrics.OutcomeProfileRequired, dErrors.New(dErrors.CodeProfileRequired, "profile has no username")
	}

	activated, err := s.cards.ActivateIfUnactivated(ctx, card.ID, profile.Username, userID, requestcontext.Now(ctx).UTC())
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, metrics.OutcomeAlreadyActive, dErrors.New(dErrors.CodeAlreadyActivated, "card is already activated")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, metrics.OutcomeNotFound, dErrors.New(dErrors.CodeCardNotFound, "card not found")
		default:
			return nil, metrics.OutcomeError, dErrors.Wrap(err, dErrors.CodeInternal, "failed to activate card")
		}
	}

	result := &models.ActivationResult{
		CardID:    activated.ID,
		Username:  activated.BoundUsername,
		PublicURL: s.publicURL(activated.BoundUsername),
	}
	if activated.ActivatedAt != nil {
		result.ActivatedAt = *activated.ActivatedAt
	}
	return result, metrics.OutcomeActivated, nil
}

// ListByUser returns the cards bound to userID, newest activation first.
func (s *Service) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Card, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cards")
	}
	if cards == nil {
		cards = []*models.Card{}
	}
	return cards, nil
}

// Provision creates cards from explicit ids or generates Count new ones.
// Existing ids are reported, never reset.
func (s *Service) Provision(ctx context.Context, req models.ProvisionRequest) (*models.ProvisionResult, error) {
	ids, err := s.provisionIDs(req)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx).UTC()
	cards := make([]*models.Card, 0, len(ids))
	for _, cardID := range ids {
		card, err := models.NewCard(cardID, req.BatchName, now)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, err.Error())
		}
		cards = append(cards, card)
	}

	created, err := s.cards.ProvisionBatch(ctx, cards)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to provision cards")
	}

	createdSet := make(map[id.CardID]struct{}, len(created))
	for _, c := range created {
		createdSet[c] = struct{}{}
	}
	result := &models.ProvisionResult{Created: []id.CardID{}, Existing: []id.CardID{}}
	for _, cardID := range ids {
		if _, ok := createdSet[cardID]; ok {
			result.Created = append(result.Created, cardID)
		} else {
			result.Existing = append(result.Existing, cardID)
		}
	}

	if s.metrics != nil {
		s.metrics.AddProvisioned(len(result.Created))
	}
	s.logger.InfoContext(ctx, "cards provisioned",
		"created", len(result.Created),
		"existing", len(result.Existing),
		"batch_name", req.BatchName,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

func (s *Service) provisionIDs(req models.ProvisionRequest) ([]id.CardID, error) {
	raw := strings.DedupeAndTrimUpper(req.CardIDs)
	switch {
	case len(raw) > 0 && req.Count > 0:
		return nil, dErrors.New(dErrors.CodeBadRequest, "provide either card_ids or count, not both")
	case len(raw) > 0:
		if len(raw) > models.MaxProvisionBatch {
			return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("at most %d cards per request", models.MaxProvisionBatch))
		}
		ids := make([]id.CardID, 0, len(raw))
		for _, r := range raw {
			cardID, err := id.ParseCardID(r)
			if err != nil {
				return nil, err
			}
			ids = append(ids, cardID)
		}
		return ids, nil
	case req.Count > 0:
		if req.Count > models.MaxProvisionBatch {
			return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("count must be between 1 and %d", models.MaxProvisionBatch))
		}
		seen := make(map[id.CardID]struct{}, req.Count)
		ids := make([]id.CardID, 0, req.Count)
		for len(ids) < req.Count {
			cardID := id.GenerateCardID()
			if _, dup := seen[cardID]; dup {
				continue
			}
			seen[cardID] = struct{}{}
			ids = append(ids, cardID)
		}
		return ids, nil
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "card_ids or count is required")
	}
}

// find canonicalises the id and maps a miss (or an id that can never exist)
// to card_not_found.
func (s *Service) find(ctx context.Context, cardID id.CardID) (*models.Card, error) {
	canonical, err := id.ParseCardID(cardID.String())
	if err != nil {
		return nil, dErrors.New(dErrors.CodeCardNotFound, "card not found")
	}
	card, err := s.cards.FindByID(ctx, canonical)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeCardNotFound, "card not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load card")
	}
	return card, nil
}

func (s *Service) publicURL(username id.Username) string {
	if s.publicBaseURL == "" {
		return ""
	}
	return s.publicBaseURL + "/public/" + username.String()
}

func (s *Service) observeActivation(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveActivation(outcome, start)
}
