package store

import (
	"context"
	"sync"

	"flexcard/internal/analytics/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/device"
)

type counters struct {
	views       int64
	clicks      int64
	dailyViews  map[string]int64
	dailyClicks map[string]int64
	devices     map[string]int64
}

// InMemory keeps analytics counters in process memory.
type InMemory struct {
	mu   sync.Mutex
	data map[id.Username]*counters
}

func NewInMemory() *InMemory {
	return &InMemory{data: make(map[id.Username]*counters)}
}

func (s *InMemory) entry(username id.Username) *counters {
	c, ok := s.data[username]
	if !ok {
		c = &counters{
			dailyViews:  make(map[string]int64),
			dailyClicks: make(map[string]int64),
			devices:     make(map[string]int64),
		}
		s.data[username] = c
	}
	return c
}

func (s *InMemory) RecordView(_ context.Context, username id.Username, day string, class device.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.entry(username)
	c.views++
	c.dailyViews[day]++
	c.devices[string(class)]++
	return nil
}

func (s *InMemory) RecordClick(_ context.Context, username id.Username, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.entry(username)
	c.clicks++
	c.dailyClicks[day]++
	return nil
}

// Counters returns totals, the requested days, and the device split.
// Days with no activity are reported as zero.
func (s *InMemory) Counters(_ context.Context, username id.Username, days []string) (*models.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &models.Counters{
		DailyViews:   make(map[string]int64, len(days)),
		DailyClicks:  make(map[string]int64, len(days)),
		DeviceCounts: make(map[string]int64),
	}
	c, ok := s.data[username]
	for _, d := range days {
		out.DailyViews[d] = 0
		out.DailyClicks[d] = 0
		if ok {
			out.DailyViews[d] = c.dailyViews[d]
			out.DailyClicks[d] = c.dailyClicks[d]
		}
	}
	if !ok {
		return out, nil
	}
	out.TotalViews = c.views
	out.TotalClicks = c.clicks
	for k, v := range c.devices {
		out.DeviceCounts[k] = v
	}
	return out, nil
}
