// Package main is the entry point for the exchange rate lookup service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxrates/internal/config"
	"fxrates/internal/provider"
	"fxrates/internal/service"
	"fxrates/internal/telemetry"
	"fxrates/internal/worker"
)

// App holds all application dependencies and manages their lifecycle.
type App struct {
	cfg            *config.Config
	logger         *zap.SugaredLogger
	telemetry      *telemetry.Provider
	rdbCache       *redis.Client
	rdbAsynq       *redis.Client
	asynqClient    *asynq.Client
	asynqServer    *asynq.Server
	asynqScheduler *asynq.Scheduler
	asynqMux       *asynq.ServeMux
	asynqmon       *asynqmon.HTTPHandler
	source         provider.RatesSource
	httpServer     *http.Server
}

// NewApp initializes all dependencies and returns a ready-to-run App.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("set up telemetry: %w", err)
	}
	app.telemetry = tp
	logger.Infow("Telemetry configured", "exporting", tp.Exporting(), "endpoint", cfg.Telemetry.OTLPEndpoint)

	if err := app.initStorage(ctx); err != nil {
		_ = app.close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.close()
		return nil, err
	}

	return app, nil
}

// close releases Redis connections and flushes telemetry
func (app *App) close() error {
	var errs []error
	if app.asynqmon != nil {
		if err := app.asynqmon.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynqmon close: %w", err))
		}
	}
	if app.asynqClient != nil {
		if err := app.asynqClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq client close: %w", err))
		}
	}
	if app.rdbAsynq != nil {
		if err := app.rdbAsynq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis asynq close: %w", err))
		}
	}
	if app.rdbCache != nil {
		if err := app.rdbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis cache close: %w", err))
		}
	}
	if app.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initStorage(ctx context.Context) error {
	if !app.cfg.UsesRedisCache() {
		app.logger.Infow("Snapshot cache configured", "backend", app.cfg.Cache.Backend)
		return nil
	}

	app.rdbCache = redis.NewClient(&redis.Options{
		Addr: app.cfg.Redis.CacheAddr,
	})
	if err := app.rdbCache.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to Redis (cache, %s): %w", app.cfg.Redis.CacheAddr, err)
	}
	app.logger.Infow("Connected to Redis cache", "addr", app.cfg.Redis.CacheAddr)

	return nil
}

func (app *App) initServices() error {
	source, err := newRatesSource(app.cfg, app.snapshotCache(), app.telemetry, app.logger)
	if err != nil {
		return err
	}
	app.source = source

	if app.cfg.Worker.Enabled {
		if err := app.initWorker(); err != nil {
			return err
		}
	}

	lookup := service.NewLookupService(source, app.logger)
	app.initHTTP(lookup)
	return nil
}

func (app *App) snapshotCache() provider.SnapshotCache {
	switch app.cfg.Cache.Backend {
	case config.CacheBackendRedis:
		return provider.NewRedisSnapshotCache(app.rdbCache)
	case config.CacheBackendMemory:
		return provider.NewMemorySnapshotCache(app.cfg.Cache.MemorySizeMB)
	default:
		return nil
	}
}

func (app *App) initWorker() error {
	redisOpt := asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr}
	checkInterval := time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second

	app.rdbAsynq = redis.NewClient(&redis.Options{Addr: app.cfg.Redis.AsynqAddr})
	app.asynqClient = asynq.NewClient(redisOpt)
	app.asynqServer = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:              app.cfg.Worker.Concurrency,
			DelayedTaskCheckInterval: checkInterval,
			TaskCheckInterval:        checkInterval,
		},
	)
	app.asynqScheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})

	timeout := time.Duration(app.cfg.Worker.TimeoutSec) * time.Second
	if err := worker.RegisterWarmTasks(app.asynqScheduler, app.cfg.Worker.WarmCron, app.cfg.Worker.WarmBases,
		app.cfg.Worker.MaxRetry, timeout); err != nil {
		return err
	}

	app.asynqMux = asynq.NewServeMux()
	app.asynqMux.HandleFunc(worker.TaskTypeWarmLatest, worker.NewWarmLatestHandler(app.source, app.cfg.Rates.DefaultBase, app.logger))

	if app.cfg.Server.ServeAsynqmon {
		app.asynqmon = asynqmon.New(asynqmon.Options{
			RootPath:     "/monitoring",
			RedisConnOpt: redisOpt,
		})
	}

	app.logger.Infow("Asynq configured",
		"addr", app.cfg.Redis.AsynqAddr,
		"warm_cron", app.cfg.Worker.WarmCron,
		"warm_bases", app.cfg.Worker.WarmBases,
	)
	return nil
}

// Run starts the HTTP server and, when enabled, the Asynq worker and scheduler,
// blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if app.asynqServer != nil {
		g.Go(func() error {
			app.logger.Infow("Starting Asynq worker server")
			if err := app.asynqServer.Start(app.asynqMux); err != nil {
				return fmt.Errorf("asynq worker failed to start: %w", err)
			}
			if err := app.asynqScheduler.Start(); err != nil {
				return fmt.Errorf("asynq scheduler failed to start: %w", err)
			}

			enq := worker.NewAsynqEnqueuer(app.asynqClient, app.cfg.Worker.MaxRetry,
				time.Duration(app.cfg.Worker.TimeoutSec)*time.Second)
			if err := enq.EnqueueWarm(ctx, app.cfg.Worker.WarmBases...); err != nil {
				app.logger.Warnw("Initial cache warm not enqueued", "error", err)
			}

			<-ctx.Done()
			return nil
		})
	}

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown: triggered by context cancellation (signal or component failure).
	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown performs ordered teardown: HTTP server -> Asynq scheduler and worker -> connections.
func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 1. Stop accepting new HTTP requests, drain in-flight
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	// 2. Stop scheduling, then drain in-flight warm tasks
	if app.asynqScheduler != nil {
		app.asynqScheduler.Shutdown()
	}
	if app.asynqServer != nil {
		app.asynqServer.Shutdown()
	}

	// 3. Close connections and flush metrics
	if err := app.close(); err != nil {
		app.logger.Errorw("Connection cleanup errors", "error", err)
		errs = append(errs, err)
	}

	app.logger.Infow("Shutdown complete")
	return errors.Join(errs...)
}
