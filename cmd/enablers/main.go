package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"enablers/internal/app/policies"
	"enablers/internal/bootstrap"
	"enablers/internal/infra/broker/kafka"
	memorycache "enablers/internal/infra/cache/memory"
	rediscache "enablers/internal/infra/cache/redis"
	"enablers/internal/infra/config"
	mongostore "enablers/internal/infra/db/mongo"
	ginserver "enablers/internal/infra/http/gin"
	"enablers/internal/infra/inbox"
	"enablers/internal/infra/notify"
	"enablers/internal/infra/obs"
	"enablers/internal/infra/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("enablers stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	checks := map[string]func(context.Context) error{}
	var closers []func(context.Context) error
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](shutdownCtx); err != nil {
				logger.Warn("close failed", "error", err)
			}
		}
	}()

	stores := bootstrap.MemoryStores()
	var msgInbox kafka.Inbox = inbox.NewMemory(0)
	if cfg.StoreDriver == "mongo" {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		closers = append(closers, client.Close)
		checks["mongo"] = client.Ping
		if err := client.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo indexes not created", "error", err)
		}
		stores = bootstrap.MongoStores(client.DB)
		msgInbox = inbox.NewStore(ctx, client.DB, cfg.KafkaGroupID)
		logger.Info("mongo store connected", "db", cfg.MongoDB)
	}

	var cache policies.AvailabilityCache
	switch cfg.CacheDriver {
	case "memory":
		cache = memorycache.New(nil)
	case "redis":
		rdb := rediscache.NewClient(rediscache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		rc := rediscache.New(rdb, "", logger)
		closers = append(closers, func(context.Context) error { return rdb.Close() })
		checks["redis"] = rc.Ping
		cache = rc
		logger.Info("redis cache configured", "addr", cfg.RedisAddr)
	}

	var notifier policies.Notifier = notify.Store{Notifications: stores.Notifications}
	var publisher policies.EventPublisher
	var producer *kafka.Producer
	if cfg.KafkaEnabled() {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return err
		}
		producer = p
		closers = append(closers, func(context.Context) error { return producer.Close() })
		publisher = &kafka.Publisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
		notifier = notify.Multi{notifier, &kafka.Notifier{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}}
	}
	background := &notify.Background{Next: notifier, Timeout: cfg.NotifyTimeout, Logger: logger}
	closers = append(closers, background.Wait)

	app := bootstrap.Build(stores, bootstrap.Options{
		Cache:       cache,
		Publisher:   publisher,
		Notifier:    background,
		CacheTTL:    cfg.CacheTTL,
		HorizonDays: cfg.HorizonDays,
		HoldTTL:     cfg.HoldTTL,
		Logger:      logger,
	})

	seedPath := cfg.SeedFile
	if seedPath == "" && cfg.StoreDriver == "memory" {
		seedPath = bootstrap.DefaultSeedPath()
	}
	if seedPath != "" {
		if err := bootstrap.LoadSeed(ctx, seedPath, stores, logger); err != nil {
			logger.Warn("seed load failed", "error", err, "path", seedPath)
		}
	}

	var wg sync.WaitGroup
	if cfg.KafkaEnabled() {
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, &kafka.BookingEventsHandler{
			Bus:    app.Commands,
			Inbox:  msgInbox,
			Logger: logger,
		}, logger)
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { return consumer.Close() })
		topics := kafka.BookingTopics(cfg.KafkaTopicPrefix)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking events consumer stopped", "error", err)
			}
		}()
		logger.Info("booking events consumer started", "topics", topics, "group", cfg.KafkaGroupID)
	}

	if cfg.HoldSweepEvery > 0 {
		sweeper := &worker.HoldSweeper{Commands: app.Commands, Interval: cfg.HoldSweepEvery, Batch: 500, Logger: logger}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sweeper.Run(ctx)
		}()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: checks}, app.Handlers)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "cache", cfg.CacheDriver)
	err := server.ListenAndServe()
	cancel()
	wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
