// Package middleware enforces per-IP request budgets on route groups.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"flexcard/internal/ratelimit/metrics"
	"flexcard/internal/ratelimit/models"
	"flexcard/pkg/platform/circuit"
	"flexcard/pkg/platform/httputil"
	request "flexcard/pkg/platform/middleware/request"
	"flexcard/pkg/requestcontext"
)

// HeaderStatus is set to "degraded" while the fallback limiter is in use.
const HeaderStatus = "X-RateLimit-Status"

// Limiter is a sliding-window bucket store.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	primary  Limiter
	fallback Limiter
	breaker  *circuit.Breaker
	limits   map[models.EndpointClass]models.Limit
	metrics  *metrics.Metrics
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithFallback sets the limiter used while the primary is failing.
func WithFallback(l Limiter) Option {
	return func(m *Middleware) {
		m.fallback = l
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.breaker = b
	}
}

// WithLimit overrides the budget for one class.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(m *Middleware) {
		m.limits[class] = limit
	}
}

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(primary Limiter, opts ...Option) (*Middleware, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary limiter is required")
	}
	m := &Middleware{
		primary: primary,
		breaker: circuit.New("ratelimit"),
		limits: map[models.EndpointClass]models.Limit{
			models.ClassPublic:  {RequestsPerWindow: 120, Window: time.Minute},
			models.ClassBeacon:  {RequestsPerWindow: 60, Window: time.Minute},
			models.ClassAccount: {RequestsPerWindow: 30, Window: time.Minute},
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		m.logger.Info("rate limiting disabled")
	}
	return m, nil
}

// RateLimit limits requests per client IP for class. Limiter failures
// never block traffic: the request is checked against the fallback, or
// let through when there is none.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit, ok := m.limits[class]
			if m.disabled || !ok || limit.RequestsPerWindow <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := models.NewIPKey(class, requestcontext.ClientIP(ctx))
			result, degraded := m.check(ctx, class, key, limit)
			if degraded {
				w.Header().Set(HeaderStatus, "degraded")
			}
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				if m.metrics != nil {
					m.metrics.IncRejected(string(class))
				}
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) check(ctx context.Context, class models.EndpointClass, key string, limit models.Limit) (*models.RateLimitResult, bool) {
	result, err := m.primary.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if err != nil {
		if m.metrics != nil {
			m.metrics.CheckErrors.Inc()
		}
		_, change := m.breaker.RecordFailure()
		if change.Opened {
			m.logger.WarnContext(ctx, "rate limiter degraded, using in-memory fallback",
				"breaker", m.breaker.Name(),
				"error", err,
			)
			m.setDegraded(true)
		} else {
			m.logger.DebugContext(ctx, "rate limit check failed",
				"error", err,
				"request_id", request.GetRequestID(ctx),
			)
		}
		return m.checkFallback(ctx, class, key, limit), true
	}

	usePrimary, change := m.breaker.RecordSuccess()
	if change.Closed {
		m.logger.InfoContext(ctx, "rate limiter recovered", "breaker", m.breaker.Name())
		m.setDegraded(false)
	}
	if !usePrimary {
		return m.checkFallback(ctx, class, key, limit), true
	}
	return result, false
}

func (m *Middleware) checkFallback(ctx context.Context, class models.EndpointClass, key string, limit models.Limit) *models.RateLimitResult {
	if m.fallback == nil {
		return nil
	}
	if m.metrics != nil {
		m.metrics.FallbackUsage.WithLabelValues(string(class)).Inc()
	}
	result, err := m.fallback.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if err != nil {
		m.logger.ErrorContext(ctx, "fallback rate limit check failed", "error", err)
		return nil
	}
	return result
}

func (m *Middleware) setDegraded(degraded bool) {
	if m.metrics != nil {
		m.metrics.SetDegraded(degraded)
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
