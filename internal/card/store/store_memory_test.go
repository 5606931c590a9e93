package store

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
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/sentinel"
)

type CardStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *CardStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestCardStoreSuite(t *testing.T) {
	suite.Run(t, new(CardStoreSuite))
}

func (s *CardStoreSuite) newCard(cardID string) *models.Card {
	card, err := models.NewCard(id.CardID(cardID), "", s.now)
	s.Require().NoError(err)
	return card
}

// TestCreationAndLookups verifies creation idempotency and case-insensitive lookup.
func (s *CardStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds card case-insensitively", func() {
		_, created, err := s.store.CreateIfAbsent(s.ctx, s.newCard("ABC123"))
		s.Require().NoError(err)
		s.True(created)

		found, err := s.store.FindByID(s.ctx, id.CardID("abc123"))
		s.Require().NoError(err)
		s.Equal(id.CardID("ABC123"), found.ID)
		s.Equal(models.CardStateUnactivated, found.State)
	})

	s.Run("returns ErrNotFound for unknown card", func() {
		_, err := s.store.FindByID(s.ctx, id.CardID("NOPE"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("create on an activated card returns it unchanged", func() {
		_, _, err := s.store.CreateIfAbsent(s.ctx, s.newCard("BOUND1"))
		s.Require().NoError(err)
		_, err = s.store.ActivateIfUnactivated(s.ctx, "BOUND1", "alice", id.UserID(uuid.New()), s.now)
		s.Require().NoError(err)

		existing, created, err := s.store.CreateIfAbsent(s.ctx, s.newCard("BOUND1"))
		s.Require().NoError(err)
		s.False(created)
		s.True(existing.IsActivated())
		s.Equal(id.Username("alice"), existing.BoundUsername)
	})
}

// TestActivation verifies the conditional transition.
func (s *CardStoreSuite) TestActivation() {
	s.Run("activates an unactivated card exactly once", func() {
		_, _, err := s.store.CreateIfAbsent(s.ctx, s.newCard("ONCE01"))
		s.Require().NoError(err)
		owner := id.UserID(uuid.New())

		card, err := s.store.ActivateIfUnactivated(s.ctx, "once01", "alice", owner, s.now)
		s.Require().NoError(err)
		s.Equal(models.CardStateActivated, card.State)
		s.Equal(owner, card.BoundUserID)
		s.Require().NotNil(card.ActivatedAt)

		_, err = s.store.ActivateIfUnactivated(s.ctx, "ONCE01", "bob", id.UserID(uuid.New()), s.now)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

		found, err := s.store.FindByID(s.ctx, "ONCE01")
		s.Require().NoError(err)
		s.Equal(id.Username("alice"), found.BoundUsername)
	})

	s.Run("returns ErrNotFound for unknown card", func() {
		_, err := s.store.ActivateIfUnactivated(s.ctx, "GHOST", "alice", id.UserID(uuid.New()), s.now)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned cards are copies", func() {
		_, _, err := s.store.CreateIfAbsent(s.ctx, s.newCard("COPY01"))
		s.Require().NoError(err)
		found, err := s.store.FindByID(s.ctx, "COPY01")
		s.Require().NoError(err)

		found.State = models.CardStateActivated

		again, err := s.store.FindByID(s.ctx, "COPY01")
		s.Require().NoError(err)
		s.Equal(models.CardStateUnactivated, again.State)
	})
}

// TestConcurrentActivation verifies N racing activations yield one winner.
func (s *CardStoreSuite) TestConcurrentActivation() {
	_, _, err := s.store.CreateIfAbsent(s.ctx, s.newCard("RACE01"))
	s.Require().NoError(err)
	const goroutines = 100

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			username := id.Username(fmt.Sprintf("user%d", i))
			_, err := s.store.ActivateIfUnactivated(s.ctx, "RACE01", username, id.UserID(uuid.New()), s.now)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one activation should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should see already used")
}

// TestProvisionAndList covers batch provisioning and the per-owner listing.
func (s *CardStoreSuite) TestProvisionAndList() {
	s.Run("skips existing ids", func() {
		_, _, err := s.store.CreateIfAbsent(s.ctx, s.newCard("P1"))
		s.Require().NoError(err)

		created, err := s.store.ProvisionBatch(s.ctx, []*models.Card{s.newCard("P1"), s.newCard("P2"), s.newCard("P3")})
		s.Require().NoError(err)
		s.Equal([]id.CardID{"P2", "P3"}, created)
	})

	s.Run("lists activated cards newest first", func() {
		owner := id.UserID(uuid.New())
		_, err := s.store.ProvisionBatch(s.ctx, []*models.Card{s.newCard("L1"), s.newCard("L2"), s.newCard("L3")})
		s.Require().NoError(err)

		_, err = s.store.ActivateIfUnactivated(s.ctx, "L1", "alice", owner, s.now)
		s.Require().NoError(err)
		_, err = s.store.ActivateIfUnactivated(s.ctx, "L2", "alice", owner, s.now.Add(time.Hour))
		s.Require().NoError(err)
		_, err = s.store.ActivateIfUnactivated(s.ctx, "L3", "bob", id.UserID(uuid.New()), s.now)
		s.Require().NoError(err)

		cards, err := s.store.ListByUser(s.ctx, owner)
		s.Require().NoError(err)
		s.Require().Len(cards, 2)
		s.Equal(id.CardID("L2"), cards[0].ID)
		s.Equal(id.CardID("L1"), cards[1].ID)
	})
}
