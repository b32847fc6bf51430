package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hourglass/internal/cache"
	"hourglass/internal/config"
	"hourglass/internal/database"
	"hourglass/internal/handlers"
	"hourglass/internal/jobs"
	"hourglass/internal/log"
	"hourglass/internal/notify"
	"hourglass/internal/server"
	"hourglass/internal/service"
	"hourglass/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	store, closeStore, err := database.OpenStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open store")
	}

	var (
		redisClient *redis.Client
		publisher   notify.Publisher
		sweep       jobs.SweepFunc
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		streams := notify.NewStreamPublisher(redisClient, cfg.Outbox.Stream)
		publisher = streams
		sweep = streams.EnqueueSweep
	}

	dispatcher := notify.NewDispatcher(store, publisher, logger)
	if sweep == nil {
		sweep = func(ctx context.Context) error {
			_, err := dispatcher.DeliverPending(ctx, cfg.Outbox.BatchSize)
			return err
		}
	}

	var archive service.ExportArchive
	if cfg.Storage.Enabled {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init object store")
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure export bucket failed")
		}
		archive = objectStore
	}

	services := handlers.Services{
		Auth:          service.NewAuthService(store, cfg, logger),
		Users:         service.NewUserService(store, cfg, logger),
		Catalog:       service.NewCatalogService(store, cfg, logger),
		Timer:         service.NewTimerService(store, cfg, logger),
		Entries:       service.NewEntryService(store, cfg, logger),
		Timesheets:    service.NewTimesheetService(store, dispatcher, cfg, logger),
		Notifications: service.NewNotificationService(store, cfg, logger),
		Reports:       service.NewReportService(store, archive, cfg, logger),
		Dashboard:     service.NewDashboardService(store, cfg, logger),
	}

	if created, err := services.Auth.Bootstrap(ctx); err != nil {
		logger.Error().Err(err).Msg("bootstrap admin failed")
	} else if created {
		logger.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("bootstrap admin ready")
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, store, redisClient, services)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(cfg.Outbox.SweepSchedule, sweep, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, closeStore, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, closeStore func(), redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	closeStore()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
