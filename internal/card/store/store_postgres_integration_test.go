//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"flexcard/internal/card/models"
	"flexcard/internal/card/store"
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
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "cards"))
}

func newTestCard(cardID string) *models.Card {
	return &models.Card{
		ID:        id.CardID(cardID),
		State:     models.CardStateUnactivated,
		CreatedAt: time.Now().UTC(),
	}
}

// TestConcurrentActivation verifies that concurrent activation attempts on one
// card result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentActivation() {
	ctx := context.Background()
	_, _, err := s.store.CreateIfAbsent(ctx, newTestCard("RACE01"))
	s.Require().NoError(err)
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.store.ActivateIfUnactivated(ctx, "race01",
				id.Username(fmt.Sprintf("user%d", i)), id.UserID(uuid.New()), time.Now())
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one activation should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get already used")

	found, err := s.store.FindByID(ctx, "RACE01")
	s.Require().NoError(err)
	s.True(found.IsActivated())
	s.NotEmpty(found.BoundUsername)
}

func (s *PostgresStoreSuite) TestActivationErrors() {
	ctx := context.Background()

	s.Run("unknown card", func() {
		_, err := s.store.ActivateIfUnactivated(ctx, "GHOST", "alice", id.UserID(uuid.New()), time.Now())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("find unknown card", func() {
		_, err := s.store.FindByID(ctx, "GHOST")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestCreateIfAbsentNeverResets() {
	ctx := context.Background()
	owner := id.UserID(uuid.New())

	_, created, err := s.store.CreateIfAbsent(ctx, newTestCard("KEEP01"))
	s.Require().NoError(err)
	s.True(created)
	_, err = s.store.ActivateIfUnactivated(ctx, "KEEP01", "alice", owner, time.Now())
	s.Require().NoError(err)

	existing, created, err := s.store.CreateIfAbsent(ctx, newTestCard("keep01"))
	s.Require().NoError(err)
	s.False(created)
	s.True(existing.IsActivated())
	s.Equal(id.Username("alice"), existing.BoundUsername)
	s.Equal(owner, existing.BoundUserID)
}

func (s *PostgresStoreSuite) TestProvisionBatchAndList() {
	ctx := context.Background()
	_, _, err := s.store.CreateIfAbsent(ctx, newTestCard("B1"))
	s.Require().NoError(err)

	batch := []*models.Card{newTestCard("B1"), newTestCard("B2"), newTestCard("B3")}
	for _, c := range batch {
		c.BatchName = "launch"
	}
	created, err := s.store.ProvisionBatch(ctx, batch)
	s.Require().NoError(err)
	s.ElementsMatch([]id.CardID{"B2", "B3"}, created)

	b1, err := s.store.FindByID(ctx, "B1")
	s.Require().NoError(err)
	s.Empty(b1.BatchName, "existing card must not be overwritten")

	owner := id.UserID(uuid.New())
	now := time.Now().UTC()
	_, err = s.store.ActivateIfUnactivated(ctx, "B2", "alice", owner, now)
	s.Require().NoError(err)
	_, err = s.store.ActivateIfUnactivated(ctx, "B3", "alice", owner, now.Add(time.Minute))
	s.Require().NoError(err)

	cards, err := s.store.ListByUser(ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Equal(id.CardID("B3"), cards[0].ID)
	s.Equal("launch", cards[0].BatchName)
}
