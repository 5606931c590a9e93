//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"flexcard/internal/profile/models"
	"flexcard/internal/profile/store"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/sentinel"
	"flexcard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "links", "profiles"))
}

func (s *PostgresStoreSuite) TestProfileAndLinks() {
	ctx := context.Background()
	alice := &models.Profile{Username: "Alice", UserID: id.UserID(uuid.New()), DisplayName: "Alice A."}
	s.Require().NoError(s.store.PutProfile(ctx, alice))
	s.Require().NoError(s.store.PutProfile(ctx, &models.Profile{Username: "bob", UserID: id.UserID(uuid.New())}))

	inactive := &models.Link{ID: models.LinkID(uuid.New()), Username: "alice", Platform: id.PlatformGitHub, URL: "https://github.com/a", Position: 1}
	second := &models.Link{ID: models.LinkID(uuid.New()), Username: "alice", Platform: id.PlatformWebsite, URL: "https://a.dev", Position: 2, IsActive: true}
	first := &models.Link{ID: models.LinkID(uuid.New()), Username: "alice", Platform: id.PlatformLinkedIn, URL: "https://linkedin.com/in/a", Position: 0, IsActive: true}
	for _, l := range []*models.Link{inactive, second, first} {
		s.Require().NoError(s.store.PutLink(ctx, l))
	}

	s.Run("finds profile by username and user id", func() {
		p, err := s.store.FindByUsername(ctx, "ALICE")
		s.Require().NoError(err)
		s.Equal("Alice A.", p.DisplayName)

		p, err = s.store.FindByUserID(ctx, alice.UserID)
		s.Require().NoError(err)
		s.Equal(id.Username("alice"), p.Username)
	})

	s.Run("lists active links by position", func() {
		links, err := s.store.ListActiveByUsername(ctx, "alice")
		s.Require().NoError(err)
		s.Require().Len(links, 2)
		s.Equal(first.ID, links[0].ID)
		s.Equal(second.ID, links[1].ID)
	})

	s.Run("click increments only for the owner", func() {
		s.Require().NoError(s.store.IncrementClicks(ctx, "alice", first.ID))
		s.Require().ErrorIs(s.store.IncrementClicks(ctx, "bob", first.ID), sentinel.ErrNotFound)

		links, err := s.store.ListActiveByUsername(ctx, "alice")
		s.Require().NoError(err)
		s.Equal(int64(1), links[0].Clicks)
	})

	s.Run("link for unknown profile", func() {
		err := s.store.PutLink(ctx, &models.Link{ID: models.LinkID(uuid.New()), Username: "ghost", Platform: id.PlatformGitHub, URL: "x"})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
