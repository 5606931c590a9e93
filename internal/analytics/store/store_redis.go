package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"flexcard/internal/analytics/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/device"
)

const keyPrefix = "flexcard:analytics:"

// RedisStore keeps analytics counters in Redis.
//
// Key layout per username:
//
//	flexcard:analytics:{username}:views          total views (INCR)
//	flexcard:analytics:{username}:clicks         total clicks (INCR)
//	flexcard:analytics:{username}:views:daily    hash day -> views
//	flexcard:analytics:{username}:clicks:daily   hash day -> clicks
//	flexcard:analytics:{username}:devices        hash class -> views
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func viewsKey(u id.Username) string       { return keyPrefix + u.String() + ":views" }
func clicksKey(u id.Username) string      { return keyPrefix + u.String() + ":clicks" }
func dailyViewsKey(u id.Username) string  { return keyPrefix + u.String() + ":views:daily" }
func dailyClicksKey(u id.Username) string { return keyPrefix + u.String() + ":clicks:daily" }
func devicesKey(u id.Username) string     { return keyPrefix + u.String() + ":devices" }

// RecordView bumps the total, day and device counters in one MULTI/EXEC.
func (s *RedisStore) RecordView(ctx context.Context, username id.Username, day string, class device.Class) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, viewsKey(username))
		pipe.HIncrBy(ctx, dailyViewsKey(username), day, 1)
		pipe.HIncrBy(ctx, devicesKey(username), string(class), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

func (s *RedisStore) RecordClick(ctx context.Context, username id.Username, day string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, clicksKey(username))
		pipe.HIncrBy(ctx, dailyClicksKey(username), day, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

// Counters reads everything for username in a single round trip.
func (s *RedisStore) Counters(ctx context.Context, username id.Username, days []string) (*models.Counters, error) {
	pipe := s.client.Pipeline()
	views := pipe.Get(ctx, viewsKey(username))
	clicks := pipe.Get(ctx, clicksKey(username))
	var dailyViews, dailyClicks *redis.SliceCmd
	if len(days) > 0 {
		dailyViews = pipe.HMGet(ctx, dailyViewsKey(username), days...)
		dailyClicks = pipe.HMGet(ctx, dailyClicksKey(username), days...)
	}
	devices := pipe.HGetAll(ctx, devicesKey(username))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read counters: %w", err)
	}

	out := &models.Counters{
		DailyViews:   make(map[string]int64, len(days)),
		DailyClicks:  make(map[string]int64, len(days)),
		DeviceCounts: make(map[string]int64),
	}
	var err error
	if out.TotalViews, err = intOrZero(views); err != nil {
		return nil, err
	}
	if out.TotalClicks, err = intOrZero(clicks); err != nil {
		return nil, err
	}
	if len(days) > 0 {
		if err := fillDays(out.DailyViews, days, dailyViews.Val()); err != nil {
			return nil, err
		}
		if err := fillDays(out.DailyClicks, days, dailyClicks.Val()); err != nil {
			return nil, err
		}
	}
	for class, raw := range devices.Val() {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse device counter %s: %w", class, err)
		}
		out.DeviceCounts[class] = n
	}
	return out, nil
}

func intOrZero(cmd *redis.StringCmd) (int64, error) {
	n, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("parse counter: %w", err)
	}
	return n, nil
}

func fillDays(dst map[string]int64, days []string, vals []any) error {
	for i, d := range days {
		dst[d] = 0
		if i >= len(vals) || vals[i] == nil {
			continue
		}
		raw, ok := vals[i].(string)
		if !ok {
			return fmt.Errorf("unexpected counter type %T for %s", vals[i], d)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parse counter for %s: %w", d, err)
		}
		dst[d] = n
	}
	return nil
}
