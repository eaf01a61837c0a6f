package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"kindle_sender/internal/config"
	"kindle_sender/internal/epub"
	"kindle_sender/internal/httpserver"
	"kindle_sender/internal/lock"
	"kindle_sender/internal/mailer"
	"kindle_sender/internal/publisher"
	"kindle_sender/internal/scheduler"
	"kindle_sender/internal/service"
	"kindle_sender/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single delivery tick and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	if cfg.Database.RunMigrations {
		if err := postgres.RunMigrations(db, cfg.Database.DBName); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Optional delivery lock
	var deliveryLock service.DeliveryLock
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, delivery lock will fail open", "addr", cfg.Redis.Addr, "error", err)
		}
		deliveryLock = lock.NewRedisLock(rdb, cfg.Redis.LockTTL)
	}

	// Optional outcome events
	var eventPublisher service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(cfg.RabbitMQ, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		eventPublisher = rabbitMQ
	}

	deliveryService := service.NewDeliveryService(
		postgres.NewProfileStore(db),
		postgres.NewArticleStore(db),
		postgres.NewHistoryStore(db),
		postgres.NewTransactionManager(db),
		epub.NewBuilder(cfg.Epub),
		mailer.NewSMTPMailer(cfg.SMTP, logger),
		deliveryLock,
		eventPublisher,
		logger,
		cfg.Delivery,
	)

	sched := scheduler.NewScheduler(deliveryService, cfg.Delivery.RunTimeout, cfg.Scheduler.RunOnStart, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		if _, err := sched.RunOnce(ctx, time.Now()); err != nil {
			os.Exit(1)
		}
		return
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	router := httpserver.NewRouter(sched, logger)
	go func() {
		if err := router.Run(cfg.HTTP.Addr); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	logger.Info("starting kindle deliverer",
		"scheduler", cfg.Scheduler.Enabled,
		"http_addr", cfg.HTTP.Addr,
		"unit_timeout", cfg.Delivery.UnitTimeout,
		"lock", cfg.Redis.Enabled,
		"events", cfg.RabbitMQ.Enabled,
	)

	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("scheduler error", "error", err)
		}
	} else {
		<-ctx.Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
