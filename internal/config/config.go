package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"golang.org/x/text/currency"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	Store       string
	DatabaseURL string

	AdminToken     string
	AdminVerifyURL string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	DefaultCurrency currency.Unit

	LogLevel  slog.Level
	LogFormat string
}

// Load parses command line flags. Every flag falls back to its environment variable, then to a default.
func Load(args []string) (Config, error) {
	var (
		cfg Config

		defaultCurrency string
		logLevel        string
		kafkaBrokers    string
	)

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return cfg, err
	}

	fs := pflag.NewFlagSet("lunchorder", pflag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "http-addr", env("HTTP_ADDR", ":8080"), "HTTP listen address")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", shutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&cfg.Store, "store", env("STORE", StorePostgres), "order and catalog store: postgres or memory")
	fs.StringVar(&cfg.DatabaseURL, "database-url", env("DATABASE_URL", ""), "postgres connection string")
	fs.StringVar(&cfg.AdminToken, "admin-token", env("ADMIN_TOKEN", ""), "shared bearer token for catalog administration")
	fs.StringVar(&cfg.AdminVerifyURL, "admin-verify-url", env("ADMIN_VERIFY_URL", ""), "endpoint verifying admin bearer tokens")
	fs.StringVar(&kafkaBrokers, "kafka-brokers", env("KAFKA_BROKERS", ""), "comma separated Kafka brokers, empty disables Kafka")
	fs.StringVar(&cfg.KafkaTopicPrefix, "kafka-topic-prefix", env("KAFKA_TOPIC_PREFIX", "lunchorder"), "prefix of change event topics")
	fs.StringVar(&defaultCurrency, "default-currency", env("DEFAULT_CURRENCY", "EUR"), "currency used when a request carries none")
	fs.StringVar(&logLevel, "log-level", env("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", env("LOG_FORMAT", LogFormatJSON), "json or text")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("fs.Parse: %w", err)
	}

	cfg.KafkaBrokers = splitList(kafkaBrokers)

	if cfg.DefaultCurrency, err = domain.ParseCurrency(defaultCurrency, domain.DefaultCurrency); err != nil {
		return cfg, fmt.Errorf("default currency: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return cfg, fmt.Errorf("log level[%s]: %w", logLevel, ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url is required for store[%s]: %w", c.Store, ErrInvalidConfig)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("store[%s]: %w", c.Store, ErrInvalidConfig)
	}

	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		return fmt.Errorf("log format[%s]: %w", c.LogFormat, ErrInvalidConfig)
	}

	if c.AdminToken == "" && c.AdminVerifyURL == "" {
		return fmt.Errorf("admin token or admin verify url is required: %w", ErrInvalidConfig)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout[%s]: %w", c.ShutdownTimeout, ErrInvalidConfig)
	}

	return nil
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s[%s]: %w", key, raw, ErrInvalidConfig)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}
