package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/lunchorder/internal/auth"
	"github.com/nikolayk812/lunchorder/internal/circuitbreaker"
	"github.com/nikolayk812/lunchorder/internal/config"
	"github.com/nikolayk812/lunchorder/internal/db"
	"github.com/nikolayk812/lunchorder/internal/httpapi"
	"github.com/nikolayk812/lunchorder/internal/notify"
	"github.com/nikolayk812/lunchorder/internal/port"
	"github.com/nikolayk812/lunchorder/internal/repository"
	"github.com/nikolayk812/lunchorder/internal/repository/memstore"
	"github.com/nikolayk812/lunchorder/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("lunchorder stopped", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, orders, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStore: %w", err)
	}
	defer closeStore()

	hub := notify.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	notifier := notify.Fanout{hub}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := notify.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
		if err != nil {
			return fmt.Errorf("notify.NewPublisher: %w", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("publisher.Close failed", "method", "run", "error", err)
			}
		}()
		notifier = append(notifier, publisher)
	}

	productService := service.NewProductService(products, newAdminGate(cfg, logger), notifier, cfg.DefaultCurrency, logger)
	orderService := service.NewOrderService(products, orders, notifier, cfg.DefaultCurrency, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewHandler(productService, orderService, hub, logger).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting lunchorder", "addr", cfg.HTTPAddr, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	logger.Info("server gracefully stopped")
	return nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	if cfg.LogFormat == config.LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func openStore(ctx context.Context, cfg config.Config) (port.ProductRepository, port.OrderRepository, func(), error) {
	if cfg.Store == config.StoreMemory {
		mdb, err := memstore.NewDB()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("memstore.NewDB: %w", err)
		}
		return memstore.NewProduct(mdb), memstore.NewOrder(mdb), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("db.Migrate: %w", err)
	}

	return repository.NewProduct(pool), repository.NewOrder(pool), pool.Close, nil
}

func newAdminGate(cfg config.Config, logger *slog.Logger) port.AdminGate {
	if cfg.AdminVerifyURL != "" {
		breaker := circuitbreaker.New(circuitbreaker.Config{
			Name:        "admin-verify",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			MaxRequests: 1,
		}, logger)
		return auth.NewRemote(cfg.AdminVerifyURL, nil, breaker, logger)
	}

	return auth.NewStaticToken(cfg.AdminToken)
}
