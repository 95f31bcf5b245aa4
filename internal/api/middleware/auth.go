package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/api/dto"
	"github.com/hugh/care-package/internal/auth"
)

type contextKey string

const (
	ClaimsKey    contextKey = "claims"
	PrincipalKey contextKey = "principal"
)

// Auth verifies the bearer token and re-reads the account it names.
// Each failure stage has its own 401 message.
func Auth(tokens auth.TokenService, resolver auth.PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), claims)
			if err != nil {
				if !errors.Is(err, auth.ErrPrincipalInactive) && logger != nil {
					logger.Error("resolving principal", "user_id", claims.UserID, "error", err)
				}
				writeError(w, http.StatusUnauthorized, "Invalid or inactive user")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, PrincipalKey, principal)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAdmin must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserType(r.Context()) != auth.UserTypeAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper functions to extract values from context
func GetClaims(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}

func GetPrincipal(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*auth.Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) uuid.UUID {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return uuid.Nil
}

func GetUserType(ctx context.Context) auth.UserType {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserType
	}
	return ""
}

func GetUserEmail(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.Email
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message})
}
