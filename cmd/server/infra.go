package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"flexcard/internal/analytics/publisher"
	"flexcard/internal/analytics/recorder"
	analyticsservice "flexcard/internal/analytics/service"
	analyticsstore "flexcard/internal/analytics/store"
	cardservice "flexcard/internal/card/service"
	cardstore "flexcard/internal/card/store"
	"flexcard/internal/platform/config"
	"flexcard/internal/platform/kafka"
	"flexcard/internal/platform/postgres"
	platformredis "flexcard/internal/platform/redis"
	profilestore "flexcard/internal/profile/store"
	resolutionservice "flexcard/internal/resolution/service"
)

// profileStore is every profile/link capability the services consume.
type profileStore interface {
	cardservice.ProfileLookup
	resolutionservice.ProfileReader
	resolutionservice.LinkReader
	analyticsservice.LinkReader
	recorder.LinkClicker
}

type counterStore interface {
	recorder.CounterStore
	analyticsservice.CounterReader
}

// infra holds the backing stores and the clients that need closing.
type infra struct {
	cards    cardservice.CardStore
	profiles profileStore
	counters counterStore
	events   *publisher.KafkaPublisher

	db    *sql.DB
	redis *platformredis.Client
	kafka *kgo.Client
}

// openInfra connects whatever is configured and falls back to in-memory
// stores for the rest.
func openInfra(ctx context.Context, cfg config.Config, logger *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		in.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			in.close(ctx, logger)
			return nil, err
		}
		in.cards = cardstore.NewPostgres(db)
		in.profiles = profilestore.NewPostgres(db)
		logger.InfoContext(ctx, "using postgres stores")
	} else {
		in.cards = cardstore.NewInMemory()
		in.profiles = profilestore.NewInMemory()
		logger.WarnContext(ctx, "DATABASE_URL not set, using in-memory card and profile stores")
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		in.close(ctx, logger)
		return nil, err
	}
	if rc != nil {
		in.redis = rc
		in.counters = analyticsstore.NewRedis(rc.Client)
		logger.InfoContext(ctx, "using redis analytics counters")
	} else {
		in.counters = analyticsstore.NewInMemory()
		logger.WarnContext(ctx, "REDIS_URL not set, analytics counters are in-memory")
	}

	kc, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		in.close(ctx, logger)
		return nil, err
	}
	if kc != nil {
		in.kafka = kc
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka); err != nil {
			// Brokers with auto-create still accept the events.
			logger.WarnContext(ctx, "analytics topic bootstrap failed", "topic", cfg.Kafka.Topic, "error", err)
		}
		in.events = publisher.NewKafka(kc, cfg.Kafka.Topic)
		logger.InfoContext(ctx, "publishing analytics events", "topic", cfg.Kafka.Topic)
	}

	return in, nil
}

// ping reports the first unhealthy dependency.
func (in *infra) ping(ctx context.Context) error {
	if in.db != nil {
		if err := in.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (in *infra) close(ctx context.Context, logger *slog.Logger) {
	var errs []error
	if in.events != nil {
		errs = append(errs, in.events.Close(ctx))
	} else if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		errs = append(errs, in.redis.Close())
	}
	if in.db != nil {
		errs = append(errs, in.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		logger.ErrorContext(ctx, "closing infrastructure", "error", err)
	}
}
