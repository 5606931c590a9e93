// Package recorder counts profile views and link clicks off the request path.
//
// Record* calls never block and never fail: the event is queued with a
// detached context and a bounded number of workers write it to the counter
// store. When the queue is full or the recorder is closed the event is
// dropped and counted in flexcard_analytics_events_dropped_total.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flexcard/internal/analytics/metrics"
	"flexcard/internal/analytics/models"
	profilemodels "flexcard/internal/profile/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/device"
	"flexcard/pkg/platform/sentinel"
	"flexcard/pkg/requestcontext"
)

type CounterStore interface {
	RecordView(ctx context.Context, username id.Username, day string, class device.Class) error
	RecordClick(ctx context.Context, username id.Username, day string) error
}

// LinkClicker increments a link's counter only when username owns it,
// returning sentinel.ErrNotFound otherwise.
type LinkClicker interface {
	IncrementClicks(ctx context.Context, username id.Username, linkID profilemodels.LinkID) error
}

type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

const (
	defaultWorkers   = 4
	defaultQueueSize = 1024
	defaultTimeout   = 2 * time.Second
)

type job struct {
	ctx   context.Context
	event models.Event
}

type Recorder struct {
	counters  CounterStore
	links     LinkClicker
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics

	timeout   time.Duration
	workers   int
	queueSize int

	inbox   chan job
	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
	running sync.WaitGroup
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// WithPublisher also streams every recorded event.
func WithPublisher(p Publisher) Option {
	return func(r *Recorder) {
		r.publisher = p
	}
}

// WithTimeout bounds each event's store and publish calls.
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithWorkers(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// New starts the recorder's workers. Call Close to stop them.
func New(counters CounterStore, links LinkClicker, opts ...Option) (*Recorder, error) {
	if counters == nil {
		return nil, fmt.Errorf("counter store is required")
	}
	if links == nil {
		return nil, fmt.Errorf("link clicker is required")
	}
	r := &Recorder{
		counters:  counters,
		links:     links,
		logger:    slog.New(slog.DiscardHandler),
		timeout:   defaultTimeout,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.inbox = make(chan job, r.queueSize)
	for range r.workers {
		r.running.Add(1)
		go r.run()
	}
	return r, nil
}

// RecordView counts one profile view.
func (r *Recorder) RecordView(ctx context.Context, username id.Username, visit models.Visit) {
	r.enqueue(ctx, models.Event{
		Type:       models.EventView,
		Username:   id.CanonicalUsername(username.String()),
		CardID:     visit.CardID,
		Device:     device.Classify(visit.UserAgent),
		DeviceName: device.DisplayName(visit.UserAgent),
		Referer:    visit.Referer,
		OccurredAt: requestcontext.Now(ctx).UTC(),
	})
}

// RecordClick counts one click on linkID if username owns it.
func (r *Recorder) RecordClick(ctx context.Context, username id.Username, linkID string) {
	r.enqueue(ctx, models.Event{
		Type:       models.EventClick,
		Username:   id.CanonicalUsername(username.String()),
		LinkID:     linkID,
		OccurredAt: requestcontext.Now(ctx).UTC(),
	})
}

func (r *Recorder) enqueue(ctx context.Context, event models.Event) {
	// Keep request-scoped values, drop the request's cancellation.
	detached := context.WithoutCancel(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(detached, event, metrics.DropClosed, nil)
		return
	}

	r.pending.Add(1)
	select {
	case r.inbox <- job{ctx: detached, event: event}:
		if r.metrics != nil {
			r.metrics.QueueDepth.Inc()
		}
	default:
		r.pending.Done()
		r.drop(detached, event, metrics.DropQueueFull, nil)
	}
}

func (r *Recorder) run() {
	defer r.running.Done()
	for j := range r.inbox {
		if r.metrics != nil {
			r.metrics.QueueDepth.Dec()
		}
		r.process(j.ctx, j.event)
		r.pending.Done()
	}
}

func (r *Recorder) process(ctx context.Context, event models.Event) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var err error
	switch event.Type {
	case models.EventView:
		err = r.counters.RecordView(ctx, event.Username, event.Day(), event.Device)
	case models.EventClick:
		linkID, parseErr := profilemodels.ParseLinkID(event.LinkID)
		if parseErr != nil {
			r.drop(ctx, event, metrics.DropLinkOwner, parseErr)
			return
		}
		if err = r.links.IncrementClicks(ctx, event.Username, linkID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				r.drop(ctx, event, metrics.DropLinkOwner, err)
				return
			}
			break
		}
		err = r.counters.RecordClick(ctx, event.Username, event.Day())
	}
	if err != nil {
		r.drop(ctx, event, metrics.DropStoreError, err)
		return
	}
	if r.metrics != nil {
		r.metrics.Recorded.WithLabelValues(string(event.Type)).Inc()
	}

	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		if r.metrics != nil {
			r.metrics.PublishErrors.Inc()
		}
		r.logger.WarnContext(ctx, "analytics event not published",
			"type", event.Type,
			"username", event.Username,
			"error", err,
		)
	}
}

func (r *Recorder) drop(ctx context.Context, event models.Event, reason string, err error) {
	if r.metrics != nil {
		r.metrics.Dropped.WithLabelValues(string(event.Type), reason).Inc()
	}
	attrs := []any{
		"type", event.Type,
		"username", event.Username,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	}
	if event.LinkID != "" {
		attrs = append(attrs, "link_id", event.LinkID)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	r.logger.WarnContext(ctx, "analytics event dropped", attrs...)
}

// Wait blocks until every queued event has been processed.
func (r *Recorder) Wait() {
	r.pending.Wait()
}

// Close stops accepting events, drains the queue and stops the workers.
// It returns ctx's error if draining does not finish in time.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.inbox)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain analytics queue: %w", ctx.Err())
	}
}
