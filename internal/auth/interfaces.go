package auth

//go:generate mockgen -destination=mocks/mock_google_provider.go -package=mocks . GoogleProvider

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/database/models"
)

// Authenticator defines the interface for sign-in operations.
type Authenticator interface {
	AdminLogin(ctx context.Context, username, password string) (*AdminSession, error)
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*models.Admin, error)
	UpsertGoogleUser(ctx context.Context, profile GoogleProfile) (*UserSession, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(p Principal) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// PrincipalResolver loads the live account a token refers to.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, claims *Claims) (*Principal, error)
}

// GoogleProvider runs the Google authorization code flow.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator     = (*Service)(nil)
	_ TokenService      = (*JWTService)(nil)
	_ PrincipalResolver = (*Service)(nil)
	_ GoogleProvider    = (*GoogleOAuth)(nil)
)
