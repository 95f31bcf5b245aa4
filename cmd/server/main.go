package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/admin"
	"github.com/hugh/care-package/internal/api"
	"github.com/hugh/care-package/internal/auth"
	"github.com/hugh/care-package/internal/database"
	"github.com/hugh/care-package/pkg/config"
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

	logger.Info("starting Care Package API server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("database schema is up to date")
	}

	// Connect to Redis; the activity feed falls back to process memory without it.
	var redisClient *redis.Client
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, using in-memory activity feed", "error", err)
		client.Close()
	} else {
		redisClient = client
	}
	pingCancel()

	var feed activity.Feed
	if redisClient != nil {
		feed = activity.NewRedisFeed(redisClient, cfg.Dashboard.FeedSize)
	} else {
		feed = activity.NewMemoryFeed(cfg.Dashboard.FeedSize)
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, activity.NewRecorder(feed, logger))
	adminService := admin.NewService(db, feed, admin.Options{
		NewUsersMetric: admin.NewUsersMetric(cfg.Dashboard.NewUsersMetric),
		ActivityLimit:  cfg.Dashboard.ActivityLimit,
	})

	routerCfg := api.RouterConfig{
		DB:             db,
		Logger:         logger,
		JWTService:     jwtService,
		AuthService:    authService,
		AdminService:   adminService,
		FrontendURL:    cfg.Server.FrontendURL,
		Production:     cfg.Server.IsProduction(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
	}
	// Interface fields stay nil unless the dependency is really there.
	if redisClient != nil {
		routerCfg.Redis = redisClient
	}
	if cfg.Google.Enabled() {
		routerCfg.Google = auth.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	} else {
		logger.Warn("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set, store owner sign-in is disabled")
	}

	router := api.NewRouter(routerCfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
