package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/events"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/telemetry"
	"github.com/nikolayk812/storefront/internal/web"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		config.Exitf("storefront: %v", err)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, logger)
	if err != nil {
		return fmt.Errorf("telemetry.Setup: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStorage[%s]: %w", cfg.Storage, err)
	}
	defer closeStorage()
	logger.Info("storage ready", "driver", cfg.Storage)

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return fmt.Errorf("openPublisher: %w", err)
	}
	defer closePublisher()

	catalogClient, err := catalog.NewClient(cfg.CatalogURL, catalog.NewHTTPClient(cfg.CatalogTimeout))
	if err != nil {
		return fmt.Errorf("catalog.NewClient: %w", err)
	}

	carts := cart.NewRegistry(storage, cfg.MaxSessions, cart.WithLogger(logger))
	carts.OnChange(func(sessionID string, c domain.Cart) {
		logger.Debug("cart changed", "session_id", sessionID, "items", len(c.Items), "item_count", c.ItemCount())
	})

	router, err := web.NewRouter(web.Deps{
		Catalog:       catalogClient,
		Carts:         carts,
		Checkout:      checkout.NewService(publisher, logger),
		Logger:        logger,
		SessionCookie: cfg.SessionCookie,
		SecureCookie:  cfg.SecureCookie,
	})
	if err != nil {
		return fmt.Errorf("web.NewRouter: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront starting", "addr", cfg.HTTPAddr, "catalog", cfg.CatalogURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func openStorage(ctx context.Context, cfg config.Config) (port.Storage, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		s, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.OpenSQLite: %w", err)
		}
		return s, func() { _ = s.Close() }, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		if err := repository.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.MigratePostgres: %w", err)
		}
		return repository.NewPostgres(pool), pool.Close, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedis(client), func() { _ = client.Close() }, nil

	case config.StorageMemory:
		return repository.NewMemory(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("storage driver[%s] is not supported", cfg.Storage)
}

func openPublisher(cfg config.Config, logger *slog.Logger) (port.OrderPublisher, func(), error) {
	if cfg.AMQPURL == "" {
		return events.NewLogPublisher(logger), func() {}, nil
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp.Dial: %w", err)
	}

	publisher, err := events.NewAMQPPublisher(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("events.NewAMQPPublisher: %w", err)
	}

	closeFn := func() {
		if err := publisher.Close(); err != nil {
			logger.Error("close amqp channel", "error", err)
		}
		if err := conn.Close(); err != nil {
			logger.Error("close amqp connection", "error", err)
		}
	}

	return publisher, closeFn, nil
}
