package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	analyticsmodels "flexcard/internal/analytics/models"
	cardmodels "flexcard/internal/card/models"
	profilemodels "flexcard/internal/profile/models"
	"flexcard/internal/resolution/models"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
	"flexcard/pkg/platform/sentinel"
)

type CardLookup interface {
	FindByID(ctx context.Context, cardID id.CardID) (*cardmodels.Card, error)
}

type ProfileReader interface {
	FindByUsername(ctx context.Context, username id.Username) (*profilemodels.Profile, error)
}

type LinkReader interface {
	ListActiveByUsername(ctx context.Context, username id.Username) ([]*profilemodels.Link, error)
}

// ViewRecorder counts a successful resolution. It must not block or fail.
type ViewRecorder interface {
	RecordView(ctx context.Context, username id.Username, visit analyticsmodels.Visit)
}

// Service turns card ids and usernames into public profile payloads.
type Service struct {
	cards    CardLookup
	profiles ProfileReader
	links    LinkReader
	views    ViewRecorder
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(cards CardLookup, profiles ProfileReader, links LinkReader, views ViewRecorder, opts ...Option) (*Service, error) {
	if cards == nil {
		return nil, fmt.Errorf("card lookup is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile reader is required")
	}
	if links == nil {
		return nil, fmt.Errorf("link reader is required")
	}
	if views == nil {
		return nil, fmt.Errorf("view recorder is required")
	}
	s := &Service{
		cards:    cards,
		profiles: profiles,
		links:    links,
		views:    views,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("flexcard/resolution"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ResolveCard resolves a scanned card. An unactivated card resolves to its
// status only; an activated one to its bound profile, counting one view.
func (s *Service) ResolveCard(ctx context.Context, cardID id.CardID, visit analyticsmodels.Visit) (*models.Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "resolution.ResolveCard")
	defer span.End()

	card, err := s.findCard(ctx, cardID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.String("card.id", card.ID.String()))

	if !card.IsActivated() {
		return &models.Resolution{Status: cardmodels.CardStateUnactivated, CardID: card.ID}, nil
	}

	res, err := s.build(ctx, card.BoundUsername)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeProfileNotFound) {
			s.logger.WarnContext(ctx, "card bound to missing profile",
				"card_id", card.ID,
				"username", card.BoundUsername,
			)
		}
		return nil, s.fail(span, err)
	}
	res.CardID = card.ID

	visit.CardID = card.ID
	s.views.RecordView(ctx, card.BoundUsername, visit)
	return res, nil
}

// ResolveUsername resolves a profile directly, bypassing card state.
func (s *Service) ResolveUsername(ctx context.Context, username id.Username, visit analyticsmodels.Visit) (*models.Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "resolution.ResolveUsername")
	defer span.End()

	canonical, err := id.ParseUsername(username.String())
	if err != nil {
		return nil, s.fail(span, dErrors.New(dErrors.CodeProfileNotFound, "profile not found"))
	}

	res, err := s.build(ctx, canonical)
	if err != nil {
		return nil, s.fail(span, err)
	}
	s.views.RecordView(ctx, canonical, visit)
	return res, nil
}

// ResolveUsernameWithCard resolves a profile reached through one of its
// cards. The card must be activated and bound to username.
func (s *Service) ResolveUsernameWithCard(ctx context.Context, username id.Username, cardID id.CardID, visit analyticsmodels.Visit) (*models.Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "resolution.ResolveUsernameWithCard")
	defer span.End()

	card, err := s.findCard(ctx, cardID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	canonical := id.CanonicalUsername(username.String())
	if !card.IsActivated() || card.BoundUsername != canonical {
		return nil, s.fail(span, dErrors.New(dErrors.CodeCardNotLinked, "card is not linked to this profile"))
	}

	res, err := s.build(ctx, canonical)
	if err != nil {
		return nil, s.fail(span, err)
	}
	res.CardID = card.ID

	visit.CardID = card.ID
	s.views.RecordView(ctx, canonical, visit)
	return res, nil
}

// build fetches the profile and its active links concurrently.
func (s *Service) build(ctx context.Context, username id.Username) (*models.Resolution, error) {
	var (
		profile *profilemodels.Profile
		links   []*profilemodels.Link
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.profiles.FindByUsername(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.links.ListActiveByUsername(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeProfileNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	res := &models.Resolution{
		Status:  cardmodels.CardStateActivated,
		Profile: models.NewPublicProfile(profile),
		Links:   make([]models.PublicLink, 0, len(links)),
	}
	for _, l := range links {
		if !l.IsActive {
			continue
		}
		res.Links = append(res.Links, models.NewPublicLink(l))
	}
	return res, nil
}

func (s *Service) findCard(ctx context.Context, cardID id.CardID) (*cardmodels.Card, error) {
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

func (s *Service) fail(span trace.Span, err error) error {
	code := dErrors.CodeOf(err)
	span.SetAttributes(attribute.String("error.code", string(code)))
	if code == dErrors.CodeInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution failed")
	}
	return err
}
