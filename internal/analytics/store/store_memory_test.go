package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"flexcard/pkg/platform/device"
)

type CounterStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestCounterStoreSuite(t *testing.T) {
	suite.Run(t, new(CounterStoreSuite))
}

func (s *CounterStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *CounterStoreSuite) TestViewsAndClicks() {
	s.Require().NoError(s.store.RecordView(s.ctx, "alice", "2026-05-01", device.ClassMobile))
	s.Require().NoError(s.store.RecordView(s.ctx, "alice", "2026-05-01", device.ClassDesktop))
	s.Require().NoError(s.store.RecordView(s.ctx, "alice", "2026-05-02", device.ClassMobile))
	s.Require().NoError(s.store.RecordClick(s.ctx, "alice", "2026-05-02"))
	s.Require().NoError(s.store.RecordView(s.ctx, "bob", "2026-05-02", device.ClassBot))

	c, err := s.store.Counters(s.ctx, "alice", []string{"2026-05-01", "2026-05-02", "2026-05-03"})
	s.Require().NoError(err)
	s.Equal(int64(3), c.TotalViews)
	s.Equal(int64(1), c.TotalClicks)
	s.Equal(map[string]int64{"2026-05-01": 2, "2026-05-02": 1, "2026-05-03": 0}, c.DailyViews)
	s.Equal(map[string]int64{"2026-05-01": 0, "2026-05-02": 1, "2026-05-03": 0}, c.DailyClicks)
	s.Equal(map[string]int64{"mobile": 2, "desktop": 1}, c.DeviceCounts)
}

func (s *CounterStoreSuite) TestUnknownUsernameIsZero() {
	c, err := s.store.Counters(s.ctx, "ghost", []string{"2026-05-01"})
	s.Require().NoError(err)
	s.Zero(c.TotalViews)
	s.Equal(map[string]int64{"2026-05-01": 0}, c.DailyViews)
	s.Empty(c.DeviceCounts)
}
