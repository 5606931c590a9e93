package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"flexcard/internal/analytics/models"
	profilemodels "flexcard/internal/profile/models"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
	"flexcard/pkg/platform/sentinel"
	"flexcard/pkg/requestcontext"
)

type CounterReader interface {
	Counters(ctx context.Context, username id.Username, days []string) (*models.Counters, error)
}

type ProfileReader interface {
	FindByUserID(ctx context.Context, userID id.UserID) (*profilemodels.Profile, error)
}

type LinkReader interface {
	ListByUsername(ctx context.Context, username id.Username) ([]*profilemodels.Link, error)
}

// Service builds the owner-facing analytics summary.
type Service struct {
	counters CounterReader
	profiles ProfileReader
	links    LinkReader
	days     int
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithWindow sets how many days (ending today, UTC) the daily series covers.
func WithWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.days = days
		}
	}
}

func New(counters CounterReader, profiles ProfileReader, links LinkReader, opts ...Option) (*Service, error) {
	if counters == nil || profiles == nil || links == nil {
		return nil, fmt.Errorf("counters, profiles and links are required")
	}
	s := &Service{
		counters: counters,
		profiles: profiles,
		links:    links,
		days:     30,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Summary reports totals, the daily series, device split and per-link clicks
// for the caller's profile.
func (s *Service) Summary(ctx context.Context, userID id.UserID) (*models.Summary, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeProfileRequired, "create a profile to see analytics")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	days := Window(requestcontext.Now(ctx), s.days)

	var (
		counters *models.Counters
		links    []*profilemodels.Link
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counters, err = s.counters.Counters(gctx, profile.Username, days)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.links.ListByUsername(gctx, profile.Username)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load analytics")
	}

	summary := &models.Summary{
		Username:    profile.Username,
		TotalViews:  counters.TotalViews,
		TotalClicks: counters.TotalClicks,
		Daily:       make([]models.DailyCount, 0, len(days)),
		Devices:     counters.DeviceCounts,
		Links:       make([]models.LinkClicks, 0, len(links)),
	}
	for _, d := range days {
		summary.Daily = append(summary.Daily, models.DailyCount{
			Date:   d,
			Views:  counters.DailyViews[d],
			Clicks: counters.DailyClicks[d],
		})
	}
	for _, l := range links {
		summary.Links = append(summary.Links, models.LinkClicks{
			LinkID:   l.ID.String(),
			Platform: l.Platform,
			Title:    l.Title,
			Clicks:   l.Clicks,
		})
	}
	return summary, nil
}

// Window lists the n UTC day keys ending at now, oldest first.
func Window(now time.Time, n int) []string {
	today := now.UTC()
	out := make([]string, n)
	for i := range n {
		out[i] = models.DayKey(today.AddDate(0, 0, i-(n-1)))
	}
	return out
}
