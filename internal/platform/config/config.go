package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full service configuration, assembled from the environment.
type Config struct {
	Environment string
	Server      Server
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
	Analytics   AnalyticsConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	PublicBaseURL   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects PostgreSQL when URL is set; otherwise stores stay in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the analytics event stream when Brokers is non-empty.
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	Partitions  int32
	Replication int16
}

type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AdminToken    string
}

type AnalyticsConfig struct {
	RecordTimeout time.Duration
	SummaryDays   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig caps requests per client IP and minute for each route class.
type RateLimitConfig struct {
	Enabled           bool
	Window            time.Duration
	PublicPerWindow   int
	BeaconPerWindow   int
	AccountPerWindow  int
	FailureThreshold  int
	RecoveryThreshold int
}

type LogConfig struct {
	Level  string
	Format string
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads an optional .env file and then builds the config from the environment.
// Variables already set in the process environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	env := getEnv("FLEXCARD_ENV", "development")

	cfg := Config{
		Environment: env,
		Server: Server{
			Addr:            getEnv("FLEXCARD_ADDR", ":8080"),
			PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     getList("KAFKA_BROKERS"),
			Topic:       getEnv("KAFKA_ANALYTICS_TOPIC", "flexcard.analytics"),
			Partitions:  int32(getInt("KAFKA_ANALYTICS_PARTITIONS", 3)),
			Replication: int16(getInt("KAFKA_ANALYTICS_REPLICATION", 1)),
		},
		Auth: AuthConfig{
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:     getEnv("JWT_ISSUER", "flexcard"),
			JWTAudience:   getEnv("JWT_AUDIENCE", "flexcard-api"),
			AdminToken:    os.Getenv("ADMIN_TOKEN"),
		},
		Analytics: AnalyticsConfig{
			RecordTimeout: getDuration("ANALYTICS_RECORD_TIMEOUT", 2*time.Second),
			SummaryDays:   getInt("ANALYTICS_SUMMARY_DAYS", 30),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBool("RATE_LIMIT_ENABLED", true),
			Window:            getDuration("RATE_LIMIT_WINDOW", time.Minute),
			PublicPerWindow:   getInt("RATE_LIMIT_PUBLIC", 120),
			BeaconPerWindow:   getInt("RATE_LIMIT_BEACON", 60),
			AccountPerWindow:  getInt("RATE_LIMIT_ACCOUNT", 30),
			FailureThreshold:  getInt("RATE_LIMIT_BREAKER_FAILURES", 5),
			RecoveryThreshold: getInt("RATE_LIMIT_BREAKER_RECOVERY", 3),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
	}

	if cfg.Auth.JWTSigningKey == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("JWT_SIGNING_KEY is required in production")
		}
		// Development default; production refuses to start without one.
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if cfg.Analytics.SummaryDays <= 0 || cfg.Analytics.SummaryDays > 365 {
		return Config{}, fmt.Errorf("ANALYTICS_SUMMARY_DAYS must be within 1..365, got %d", cfg.Analytics.SummaryDays)
	}
	if cfg.RateLimit.Window <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

// LogValue keeps secrets out of startup logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", c.Environment),
		slog.String("addr", c.Server.Addr),
		slog.Bool("postgres", c.Database.URL != ""),
		slog.Bool("redis", c.Redis.URL != ""),
		slog.Bool("kafka", len(c.Kafka.Brokers) > 0),
		slog.Bool("admin_enabled", c.Auth.AdminToken != ""),
		slog.Bool("rate_limit", c.RateLimit.Enabled),
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
