package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugh/care-package/pkg/util"
	"github.com/spf13/viper"
)

const placeholderJWTSecret = "change-me-in-production"

var (
	ErrMissingJWTSecret     = errors.New("JWT_SECRET must be set")
	ErrPlaceholderJWTSecret = errors.New("JWT_SECRET must be changed from the placeholder in production")
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Google     GoogleConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Dashboard  DashboardConfig
	Invitation InvitationConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	FrontendURL string
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type DashboardConfig struct {
	NewUsersMetric string
	ActivityLimit  int
	FeedSize       int
}

type InvitationConfig struct {
	SweepCron string
}

// DSN prefers DATABASE_URL when set, otherwise builds a keyword/value string.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (g *GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func (s *ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// Validate fails closed on settings the server cannot run safely without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.Server.IsProduction() && c.JWT.Secret == placeholderJWTSecret {
		return ErrPlaceholderJWTSecret
	}
	if c.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive, got %d", c.JWT.ExpiryHours)
	}
	switch c.Dashboard.NewUsersMetric {
	case "active", "created_this_month":
	default:
		return fmt.Errorf("DASHBOARD_NEW_USERS_METRIC must be active or created_this_month, got %q", c.Dashboard.NewUsersMetric)
	}
	if err := util.ValidateCronExpr(c.Invitation.SweepCron); err != nil {
		return fmt.Errorf("INVITATION_SWEEP_CRON: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "carepackage")
	v.SetDefault("DATABASE_PASSWORD", "carepackage_secret")
	v.SetDefault("DATABASE_NAME", "carepackage")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_EXPIRY_HOURS", 24*7)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("DASHBOARD_NEW_USERS_METRIC", "active")
	v.SetDefault("DASHBOARD_ACTIVITY_LIMIT", 10)
	v.SetDefault("ACTIVITY_FEED_SIZE", 100)
	v.SetDefault("INVITATION_SWEEP_CRON", "*/15 * * * *")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("SERVER_HOST"),
			Port:        v.GetInt("SERVER_PORT"),
			Env:         v.GetString("SERVER_ENV"),
			FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			Host:        v.GetString("DATABASE_HOST"),
			Port:        v.GetInt("DATABASE_PORT"),
			User:        v.GetString("DATABASE_USER"),
			Password:    v.GetString("DATABASE_PASSWORD"),
			Name:        v.GetString("DATABASE_NAME"),
			SSLMode:     v.GetString("DATABASE_SSLMODE"),
			AutoMigrate: v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Google: GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Dashboard: DashboardConfig{
			NewUsersMetric: v.GetString("DASHBOARD_NEW_USERS_METRIC"),
			ActivityLimit:  v.GetInt("DASHBOARD_ACTIVITY_LIMIT"),
			FeedSize:       v.GetInt("ACTIVITY_FEED_SIZE"),
		},
		Invitation: InvitationConfig{
			SweepCron: v.GetString("INVITATION_SWEEP_CRON"),
		},
	}

	if cfg.Google.RedirectURL == "" {
		cfg.Google.RedirectURL = fmt.Sprintf("http://localhost:%d/api/auth/google/callback", cfg.Server.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
