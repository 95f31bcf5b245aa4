package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	oauthStateLength = 32
	OAuthStateCookie = "oauth_state"
	oauthStateExpiry = 10 * time.Minute
)

// IssueOAuthState generates a random state value and stores it in a short
// lived cookie scoped to the Google auth routes.
func IssueOAuthState(w http.ResponseWriter, r *http.Request) (string, error) {
	b := make([]byte, oauthStateLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     OAuthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateExpiry.Seconds()),
	})

	return state, nil
}

// VerifyOAuthState compares the state echoed by the provider against the
// cookie and clears the cookie either way.
func VerifyOAuthState(w http.ResponseWriter, r *http.Request, provided string) bool {
	http.SetCookie(w, &http.Cookie{
		Name:     OAuthStateCookie,
		Value:    "",
		Path:     "/api/auth/google",
		HttpOnly: true,
		MaxAge:   -1,
	})

	cookie, err := r.Cookie(OAuthStateCookie)
	if err != nil || cookie.Value == "" || provided == "" {
		return false
	}

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(provided)) == 1
}
