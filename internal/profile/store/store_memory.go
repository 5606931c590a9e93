package store

import (
	"context"
	"sort"
	"sync"

	"flexcard/internal/profile/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/sentinel"
)

// InMemory holds profiles and their links. Profile and link CRUD belongs to
// the account system, so Put*/Delete* exist for seeding and tests only.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.Username]*models.Profile
	byUser   map[id.UserID]id.Username
	links    map[models.LinkID]*models.Link
}

func NewInMemory() *InMemory {
	return &InMemory{
		profiles: make(map[id.Username]*models.Profile),
		byUser:   make(map[id.UserID]id.Username),
		links:    make(map[models.LinkID]*models.Link),
	}
}

// PutProfile inserts or replaces a profile keyed by its username.
func (s *InMemory) PutProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.Username = id.CanonicalUsername(p.Username.String())
	s.profiles[cp.Username] = &cp
	s.byUser[cp.UserID] = cp.Username
	return nil
}

// DeleteProfile drops a profile and its links; card bindings are not touched.
func (s *InMemory) DeleteProfile(_ context.Context, username id.Username) error {
	key := id.CanonicalUsername(username.String())
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, key)
	delete(s.byUser, p.UserID)
	for linkID, l := range s.links {
		if l.Username == key {
			delete(s.links, linkID)
		}
	}
	return nil
}

// PutLink inserts or replaces a link. The owning profile must exist.
func (s *InMemory) PutLink(_ context.Context, l *models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	cp.Username = id.CanonicalUsername(l.Username.String())
	if _, ok := s.profiles[cp.Username]; !ok {
		return sentinel.ErrNotFound
	}
	s.links[cp.ID] = &cp
	return nil
}

func (s *InMemory) FindByUsername(_ context.Context, username id.Username) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id.CanonicalUsername(username.String())]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) FindByUserID(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.byUser[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.profiles[username]
	return &cp, nil
}

func (s *InMemory) ListActiveByUsername(_ context.Context, username id.Username) ([]*models.Link, error) {
	key := id.CanonicalUsername(username.String())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Link, 0)
	for _, l := range s.links {
		if l.Username == key && l.IsActive {
			cp := *l
			out = append(out, &cp)
		}
	}
	sortLinks(out)
	return out, nil
}

// ListByUsername returns every link, active or not, for owner analytics.
func (s *InMemory) ListByUsername(_ context.Context, username id.Username) ([]*models.Link, error) {
	key := id.CanonicalUsername(username.String())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Link, 0)
	for _, l := range s.links {
		if l.Username == key {
			cp := *l
			out = append(out, &cp)
		}
	}
	sortLinks(out)
	return out, nil
}

// IncrementClicks bumps the counter only when the link belongs to username.
func (s *InMemory) IncrementClicks(_ context.Context, username id.Username, linkID models.LinkID) error {
	key := id.CanonicalUsername(username.String())
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok || l.Username != key {
		return sentinel.ErrNotFound
	}
	l.Clicks++
	return nil
}

func sortLinks(links []*models.Link) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Position != links[j].Position {
			return links[i].Position < links[j].Position
		}
		return links[i].ID.String() < links[j].ID.String()
	})
}
