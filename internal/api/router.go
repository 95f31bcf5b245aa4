package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/care-package/internal/admin"
	"github.com/hugh/care-package/internal/api/dto"
	"github.com/hugh/care-package/internal/api/handlers"
	"github.com/hugh/care-package/internal/api/middleware"
	"github.com/hugh/care-package/internal/auth"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB           *gorm.DB
	Redis        redis.UniversalClient // nil when Redis is not configured
	Logger       *slog.Logger
	JWTService   *auth.JWTService
	AuthService  *auth.Service
	AdminService *admin.Service
	Google       auth.GoogleProvider // nil when Google OAuth is not configured

	FrontendURL    string
	Production     bool
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Login attempts per window
	RateLimitSecs  int      // Login window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "Method not allowed"})
	})

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, handlers.AuthHandlerOptions{
		Google:      cfg.Google,
		FrontendURL: cfg.FrontendURL,
		Production:  cfg.Production,
		Logger:      logger,
	})
	adminHandler := handlers.NewAdminHandler(cfg.AdminService, logger)

	requireAuth := middleware.Auth(cfg.JWTService, cfg.AuthService, logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", healthHandler.Info)

		r.Route("/auth", func(r chi.Router) {
			login := r.With()
			if cfg.RateLimitReqs > 0 {
				login = r.With(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
			}
			login.Post("/admin/login", authHandler.AdminLogin)

			r.Post("/admin/create", authHandler.CreateAdmin)
			r.Post("/logout", authHandler.Logout)
			r.Get("/google", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)

			r.With(requireAuth).Get("/me", authHandler.Me)
			r.With(requireAuth, middleware.RequireAdmin).Get("/admin/me", authHandler.AdminMe)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", adminHandler.Dashboard)

			r.Get("/users", adminHandler.ListUsers)
			r.Get("/users/{id}", adminHandler.GetUser)

			r.Get("/stores", adminHandler.ListStores)
			r.Get("/stores/{id}", adminHandler.GetStore)

			r.Get("/customers", adminHandler.ListCustomers)
			r.Get("/customers/{id}", adminHandler.GetCustomer)

			r.Get("/invitations", adminHandler.ListInvitations)
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
