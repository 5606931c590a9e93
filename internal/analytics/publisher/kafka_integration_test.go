//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"flexcard/internal/analytics/models"
	"flexcard/internal/analytics/publisher"
	"flexcard/internal/platform/config"
	"flexcard/internal/platform/kafka"
	"flexcard/pkg/platform/device"
	"flexcard/pkg/testutil/containers"
)

func TestKafkaPublisher_ProducesKeyedEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := config.KafkaConfig{Brokers: rp.Brokers, Topic: "flexcard.analytics.test", Partitions: 1, Replication: 1}
	producer, err := kafka.NewProducer(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NoError(t, kafka.EnsureTopic(ctx, producer, cfg))
	require.NoError(t, kafka.EnsureTopic(ctx, producer, cfg), "second bootstrap is a no-op")

	pub := publisher.NewKafka(producer, cfg.Topic)
	event := models.Event{
		Type:       models.EventView,
		Username:   "alice",
		CardID:     "ABC123",
		Device:     device.ClassMobile,
		OccurredAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(ctx, event))
	require.NoError(t, pub.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "alice", string(records[0].Key))

	var got models.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event, got)
}
