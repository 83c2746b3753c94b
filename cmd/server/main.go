package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/api"
	"github.com/medstock/inventory-tracker/internal/api/handler"
	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/ports"
	"github.com/medstock/inventory-tracker/internal/core/service"
	"github.com/medstock/inventory-tracker/internal/infrastructure/db/memory"
	mongostore "github.com/medstock/inventory-tracker/internal/infrastructure/db/mongo"
	"github.com/medstock/inventory-tracker/internal/infrastructure/db/postgres"
	redisstore "github.com/medstock/inventory-tracker/internal/infrastructure/db/redis"
	"github.com/medstock/inventory-tracker/internal/infrastructure/report"
	"github.com/medstock/inventory-tracker/internal/pkg/config"
	"github.com/medstock/inventory-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "medstock",
		Env:     cfg.Env,
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting application")

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	health := map[string]handler.Pinger{"store": store}

	var idem handler.IdempotencyStore
	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		idem = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		health["redis"] = handler.PingFunc(redisstore.Ping(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	repos := store.Repositories()
	exporter := report.NewXLSXExporter()

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		JWTSecret:   cfg.JWTSecret,
		Guard:       authz.NewGuard(),
		Auth:        service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTTTL),
		Users:       service.NewUserService(repos.Users),
		Stock:       service.NewStockService(store, repos.Stock, log),
		Allocations: service.NewAllocationService(store, repos.Allocations, log),
		Movements:   service.NewMovementService(repos.Movements, log),
		Reports: service.NewReportService(repos, exporter, service.ReportOptions{
			LowStockThreshold: cfg.Reports.LowStockThreshold,
			ExpiryWindowDays:  cfg.Reports.ExpiryWindowDays,
		}, log),
		Exporter:    exporter,
		Idempotency: idem,
		Health:      health,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// openStore connects the Entity Store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(client, db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return store, nil

	case config.DriverPostgres:
		if err := postgres.Migrate(cfg.Postgres.DSN); err != nil {
			return nil, err
		}
		log.Info().Msg("postgres migrations applied")

		pool, err := postgres.NewPool(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("postgres connected")
		return postgres.NewStore(pool), nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
