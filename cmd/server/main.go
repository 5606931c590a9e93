package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	analyticshandler "flexcard/internal/analytics/handler"
	analyticsmetrics "flexcard/internal/analytics/metrics"
	"flexcard/internal/analytics/recorder"
	analyticsservice "flexcard/internal/analytics/service"
	cardhandler "flexcard/internal/card/handler"
	cardmetrics "flexcard/internal/card/metrics"
	cardservice "flexcard/internal/card/service"
	jwttoken "flexcard/internal/jwt_token"
	"flexcard/internal/platform/config"
	"flexcard/internal/platform/httpserver"
	"flexcard/internal/platform/logger"
	"flexcard/internal/platform/metrics"
	platformmw "flexcard/internal/platform/middleware"
	ratelimitmetrics "flexcard/internal/ratelimit/metrics"
	ratelimitmw "flexcard/internal/ratelimit/middleware"
	ratelimitmodels "flexcard/internal/ratelimit/models"
	"flexcard/internal/ratelimit/store/bucket"
	resolutionhandler "flexcard/internal/resolution/handler"
	resolutionservice "flexcard/internal/resolution/service"
	"flexcard/pkg/platform/circuit"
	"flexcard/pkg/platform/httputil"
	adminmw "flexcard/pkg/platform/middleware/admin"
	authmw "flexcard/pkg/platform/middleware/auth"
	"flexcard/pkg/platform/middleware/metadata"
	request "flexcard/pkg/platform/middleware/request"
	"flexcard/pkg/platform/middleware/requesttime"
)

// main wires configuration, infrastructure and the module routers, then
// serves until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Production: cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	log.InfoContext(ctx, "starting flexcard", "config", cfg)

	in, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	rec, err := newRecorder(cfg, in, reg, log)
	if err != nil {
		in.close(context.WithoutCancel(ctx), log)
		return err
	}

	router, err := newRouter(cfg, in, rec, reg, log)
	if err != nil {
		in.close(context.WithoutCancel(ctx), log)
		return err
	}

	srv := httpserver.New(cfg.Server.Addr, router, httpserver.Options{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	serveErr := httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)

	// Requests are finished; drain analytics before the stores go away.
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := rec.Close(drainCtx); err != nil {
		log.WarnContext(drainCtx, "analytics queue not fully drained", "error", err)
	}
	in.close(drainCtx, log)
	return serveErr
}

func newRecorder(cfg config.Config, in *infra, reg prometheus.Registerer, log *slog.Logger) (*recorder.Recorder, error) {
	opts := []recorder.Option{
		recorder.WithLogger(log),
		recorder.WithMetrics(analyticsmetrics.New(reg)),
		recorder.WithTimeout(cfg.Analytics.RecordTimeout),
	}
	if in.events != nil {
		opts = append(opts, recorder.WithPublisher(in.events))
	}
	return recorder.New(in.counters, in.profiles, opts...)
}

func newRouter(cfg config.Config, in *infra, rec *recorder.Recorder, reg *prometheus.Registry, log *slog.Logger) (http.Handler, error) {
	cardSvc, err := cardservice.New(in.cards, in.profiles,
		cardservice.WithLogger(log),
		cardservice.WithMetrics(cardmetrics.New(reg)),
		cardservice.WithPublicBaseURL(cfg.Server.PublicBaseURL),
	)
	if err != nil {
		return nil, err
	}
	resolutionSvc, err := resolutionservice.New(in.cards, in.profiles, in.profiles, rec,
		resolutionservice.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	summarySvc, err := analyticsservice.New(in.counters, in.profiles, in.profiles,
		analyticsservice.WithLogger(log),
		analyticsservice.WithWindow(cfg.Analytics.SummaryDays),
	)
	if err != nil {
		return nil, err
	}

	cards := cardhandler.New(cardSvc, log)
	resolution := resolutionhandler.New(resolutionSvc, log)
	analytics := analyticshandler.New(summarySvc, rec, log)

	limiter, err := newRateLimiter(cfg.RateLimit, in, reg, log)
	if err != nil {
		return nil, err
	}

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	requireAuth := authmw.RequireAuth(jwtService.Validator(), log)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(platformmw.Latency(metrics.New(reg)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", adminmw.HeaderAdminToken},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler(in))
	r.Handle("/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		r.Use(limiter.RateLimit(ratelimitmodels.ClassPublic))
		cards.Register(r)
		resolution.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(limiter.RateLimit(ratelimitmodels.ClassBeacon))
		analytics.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(limiter.RateLimit(ratelimitmodels.ClassAccount))
		cards.RegisterAuthenticated(r)
		analytics.RegisterAuthenticated(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.Auth.AdminToken, log))
		cards.RegisterAdmin(r)
	})

	return r, nil
}

// newRateLimiter counts in Redis when it is configured, falling back to
// per-process buckets while Redis is failing.
func newRateLimiter(cfg config.RateLimitConfig, in *infra, reg prometheus.Registerer, log *slog.Logger) (*ratelimitmw.Middleware, error) {
	opts := []ratelimitmw.Option{
		ratelimitmw.WithLogger(log),
		ratelimitmw.WithMetrics(ratelimitmetrics.New(reg)),
		ratelimitmw.WithDisabled(!cfg.Enabled),
		ratelimitmw.WithBreaker(circuit.New("ratelimit-redis",
			circuit.WithFailureThreshold(cfg.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.RecoveryThreshold),
		)),
		ratelimitmw.WithLimit(ratelimitmodels.ClassPublic, ratelimitmodels.Limit{RequestsPerWindow: cfg.PublicPerWindow, Window: cfg.Window}),
		ratelimitmw.WithLimit(ratelimitmodels.ClassBeacon, ratelimitmodels.Limit{RequestsPerWindow: cfg.BeaconPerWindow, Window: cfg.Window}),
		ratelimitmw.WithLimit(ratelimitmodels.ClassAccount, ratelimitmodels.Limit{RequestsPerWindow: cfg.AccountPerWindow, Window: cfg.Window}),
	}
	if in.redis == nil {
		return ratelimitmw.New(bucket.New(), opts...)
	}
	opts = append(opts, ratelimitmw.WithFallback(bucket.New()))
	return ratelimitmw.New(bucket.NewRedis(in.redis.Client), opts...)
}

func healthHandler(in *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := in.ping(ctx); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
