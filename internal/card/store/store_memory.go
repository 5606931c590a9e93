package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"flexcard/internal/card/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded card registry. Every read returns a copy so
// callers never observe a later activation through a pointer they hold.
type InMemory struct {
	mu    sync.RWMutex
	cards map[id.CardID]*models.Card
}

func NewInMemory() *InMemory {
	return &InMemory{cards: make(map[id.CardID]*models.Card)}
}

func (s *InMemory) FindByID(_ context.Context, cardID id.CardID) (*models.Card, error) {
	key := id.CanonicalCardID(cardID.String())

	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneCard(card), nil
}

func (s *InMemory) CreateIfAbsent(_ context.Context, card *models.Card) (*models.Card, bool, error) {
	key := id.CanonicalCardID(card.ID.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cards[key]; ok {
		return cloneCard(existing), false, nil
	}
	stored := cloneCard(card)
	stored.ID = key
	s.cards[key] = stored
	return cloneCard(stored), true, nil
}

func (s *InMemory) ActivateIfUnactivated(_ context.Context, cardID id.CardID, username id.Username, userID id.UserID, at time.Time) (*models.Card, error) {
	key := id.CanonicalCardID(cardID.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if card.IsActivated() {
		return nil, sentinel.ErrAlreadyUsed
	}
	card.ApplyActivation(username, userID, at)
	return cloneCard(card), nil
}

func (s *InMemory) ProvisionBatch(_ context.Context, cards []*models.Card) ([]id.CardID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]id.CardID, 0, len(cards))
	for _, card := range cards {
		key := id.CanonicalCardID(card.ID.String())
		if _, ok := s.cards[key]; ok {
			continue
		}
		stored := cloneCard(card)
		stored.ID = key
		s.cards[key] = stored
		created = append(created, key)
	}
	return created, nil
}

func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Card
	for _, card := range s.cards {
		if card.IsActivated() && card.BoundUserID == userID {
			out = append(out, cloneCard(card))
		}
	}
	sortByActivationDesc(out)
	return out, nil
}

func sortByActivationDesc(cards []*models.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		ai, aj := cards[i].ActivatedAt, cards[j].ActivatedAt
		if ai.Equal(*aj) {
			return cards[i].ID < cards[j].ID
		}
		return ai.After(*aj)
	})
}

func cloneCard(c *models.Card) *models.Card {
	cp := *c
	if c.ActivatedAt != nil {
		at := *c.ActivatedAt
		cp.ActivatedAt = &at
	}
	return &cp
}
