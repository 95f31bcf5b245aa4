package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver accepts the ids it holds and rejects everything else.
type stubResolver struct {
	active map[uuid.UUID]auth.Principal
	err    error
}

func (s *stubResolver) ResolvePrincipal(_ context.Context, c *auth.Claims) (*auth.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.active[c.UserID]
	if !ok || p.UserType != c.UserType {
		return nil, auth.ErrPrincipalInactive
	}
	return &p, nil
}

func newPrincipal(ut auth.UserType) auth.Principal {
	role := "store_owner"
	if ut == auth.UserTypeAdmin {
		role = auth.RoleAdmin
	}
	return auth.Principal{ID: uuid.New(), Email: "p@example.com", Role: role, UserType: ut}
}

func resolverFor(ps ...auth.Principal) *stubResolver {
	r := &stubResolver{active: map[uuid.UUID]auth.Principal{}}
	for _, p := range ps {
		r.active[p.ID] = p
	}
	return r
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth_ValidToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	p := newPrincipal(auth.UserTypeAdmin)

	token, err := jwtService.GenerateToken(p)
	require.NoError(t, err)

	handler := Auth(jwtService, resolverFor(p), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify context values are set
		assert.Equal(t, p.ID, GetUserID(r.Context()))
		assert.Equal(t, auth.UserTypeAdmin, GetUserType(r.Context()))
		assert.Equal(t, p.Email, GetUserEmail(r.Context()))
		require.NotNil(t, GetClaims(r.Context()))
		assert.Equal(t, p.ID, GetClaims(r.Context()).UserID)
		okHandler(w, r)
	}))

	rec := serve(handler, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestAuth_MissingOrMalformedHeader(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	handler := Auth(jwtService, resolverFor(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called")
	}))

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "Token abc"} {
		t.Run("header "+header, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/test", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestAuth_CookieIsIgnored(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	p := newPrincipal(auth.UserTypeAdmin)
	token, err := jwtService.GenerateToken(p)
	require.NoError(t, err)

	handler := Auth(jwtService, resolverFor(p), nil)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	handler := Auth(jwtService, resolverFor(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called")
	}))

	rec := serve(handler, "invalid-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestAuth_ExpiredToken(t *testing.T) {
	// Create service with 1 nanosecond expiration
	jwtService := auth.NewJWTService("test-secret", 1*time.Nanosecond)
	p := newPrincipal(auth.UserTypeAdmin)

	token, err := jwtService.GenerateToken(p)
	require.NoError(t, err)

	// Wait for token to expire
	time.Sleep(10 * time.Millisecond)

	handler := Auth(jwtService, resolverFor(p), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for expired token")
	}))

	rec := serve(handler, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuth_TokenFromDifferentSecret(t *testing.T) {
	jwtService1 := auth.NewJWTService("secret-1", 24*time.Hour)
	jwtService2 := auth.NewJWTService("secret-2", 24*time.Hour)
	p := newPrincipal(auth.UserTypeUser)

	// Generate token with service1
	token, err := jwtService1.GenerateToken(p)
	require.NoError(t, err)

	handler := Auth(jwtService2, resolverFor(p), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for token with different secret")
	}))

	rec := serve(handler, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InactivePrincipal(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	p := newPrincipal(auth.UserTypeUser)

	token, err := jwtService.GenerateToken(p)
	require.NoError(t, err)

	handler := Auth(jwtService, resolverFor(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for inactive principal")
	}))

	rec := serve(handler, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or inactive user"}`, rec.Body.String())
}

func TestAuth_ResolverFailure(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	p := newPrincipal(auth.UserTypeAdmin)
	token, err := jwtService.GenerateToken(p)
	require.NoError(t, err)

	resolver := &stubResolver{err: errors.New("db down")}
	rec := serve(Auth(jwtService, resolver, nil)(http.HandlerFunc(okHandler)), token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	admin := newPrincipal(auth.UserTypeAdmin)
	user := newPrincipal(auth.UserTypeUser)
	handler := Auth(jwtService, resolverFor(admin, user), nil)(RequireAdmin(http.HandlerFunc(okHandler)))

	tests := []struct {
		name           string
		principal      auth.Principal
		expectedStatus int
	}{
		{"admin_has_access", admin, http.StatusOK},
		{"user_denied", user, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwtService.GenerateToken(tt.principal)
			require.NoError(t, err)

			rec := serve(handler, token)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Admin access required"}`, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin_WithoutAuth(t *testing.T) {
	rec := serve(RequireAdmin(http.HandlerFunc(okHandler)), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, uuid.Nil, GetUserID(ctx))
	assert.Equal(t, auth.UserType(""), GetUserType(ctx))
	assert.Equal(t, "", GetUserEmail(ctx))
	assert.Nil(t, GetClaims(ctx))
	assert.Nil(t, GetPrincipal(ctx))
}
