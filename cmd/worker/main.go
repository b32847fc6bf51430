package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"hourglass/internal/cache"
	"hourglass/internal/config"
	"hourglass/internal/database"
	"hourglass/internal/log"
	"hourglass/internal/notify"
	"hourglass/internal/queue"
	"hourglass/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	if !cfg.Redis.Enabled {
		logger.Fatal().Msg("worker requires redis.enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.OpenStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	// the worker delivers directly; it never republishes
	dispatcher := notify.NewDispatcher(store, nil, logger)
	if delivered, err := dispatcher.DeliverPending(ctx, cfg.Outbox.BatchSize); err != nil {
		logger.Warn().Err(err).Int("delivered", delivered).Msg("startup outbox sweep incomplete")
	}

	processor := tasks.NewProcessor(dispatcher, cfg.Outbox.BatchSize, logger)
	consumer := queue.NewConsumer(client, queue.Options{
		Stream:        cfg.Outbox.Stream,
		Group:         cfg.Outbox.Group,
		Consumer:      cfg.Outbox.Consumer,
		ClaimInterval: cfg.Outbox.ClaimInterval,
		MinIdle:       cfg.Outbox.MinIdle,
	}, logger, processor)

	done := make(chan error, 1)
	go func() {
		done <- consumer.Start(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			logger.Warn().Msg("consumer did not stop in time")
		}
	}
}
