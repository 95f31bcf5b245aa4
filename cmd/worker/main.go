package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/database"
	"github.com/hugh/care-package/internal/tasks"
	"github.com/hugh/care-package/pkg/config"
	"github.com/hugh/care-package/pkg/queue"
	"github.com/hugh/care-package/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Care Package worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// The worker needs Redis for the queue anyway, so the sweep writes to the shared feed.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	recorder := activity.NewRecorder(activity.NewRedisFeed(redisClient, cfg.Dashboard.FeedSize), logger)

	// Create task handler
	handler := tasks.NewHandler(db, logger, recorder)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	srv := queue.NewServer(&cfg.Redis, 10, logger)
	scheduler := queue.NewScheduler(&cfg.Redis, logger)
	if err := tasks.RegisterSchedules(scheduler, cfg.Invitation.SweepCron); err != nil {
		logger.Error("failed to register schedules", "error", err)
		os.Exit(1)
	}
	if next, err := util.NextCronTime(cfg.Invitation.SweepCron, time.Now()); err == nil {
		logger.Info("invitation sweep scheduled", "cron", cfg.Invitation.SweepCron, "next_run", next)
	}

	if err := srv.Start(mux); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		srv.Shutdown()
		os.Exit(1)
	}

	logger.Info("worker started, waiting for tasks...")

	// Handle shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()

	redisClient.Close()

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
