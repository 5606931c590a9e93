//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"flexcard/internal/analytics/store"
	"flexcard/pkg/platform/device"
	"flexcard/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestCountersRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.RecordView(ctx, "alice", "2026-05-01", device.ClassMobile))
	s.Require().NoError(s.store.RecordView(ctx, "alice", "2026-05-02", device.ClassDesktop))
	s.Require().NoError(s.store.RecordClick(ctx, "alice", "2026-05-02"))

	c, err := s.store.Counters(ctx, "alice", []string{"2026-05-01", "2026-05-02", "2026-05-03"})
	s.Require().NoError(err)
	s.Equal(int64(2), c.TotalViews)
	s.Equal(int64(1), c.TotalClicks)
	s.Equal(map[string]int64{"2026-05-01": 1, "2026-05-02": 1, "2026-05-03": 0}, c.DailyViews)
	s.Equal(int64(1), c.DailyClicks["2026-05-02"])
	s.Equal(map[string]int64{"mobile": 1, "desktop": 1}, c.DeviceCounts)
}

func (s *RedisStoreSuite) TestEmptyUsername() {
	c, err := s.store.Counters(context.Background(), "nobody", []string{"2026-05-01"})
	s.Require().NoError(err)
	s.Zero(c.TotalViews)
	s.Zero(c.TotalClicks)
	s.Empty(c.DeviceCounts)
}

func (s *RedisStoreSuite) TestConcurrentViewsAreNotLost() {
	ctx := context.Background()
	const writers = 50

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.store.RecordView(ctx, "busy", "2026-05-01", device.ClassUnknown))
		}()
	}
	wg.Wait()

	c, err := s.store.Counters(ctx, "busy", []string{"2026-05-01"})
	s.Require().NoError(err)
	s.Equal(int64(writers), c.TotalViews)
	s.Equal(int64(writers), c.DailyViews["2026-05-01"])
}
