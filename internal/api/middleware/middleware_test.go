package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	handler := RateLimit(3, 60)(http.HandlerFunc(okHandler))

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/auth/admin/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		rec := call("10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Rate limit exceeded"}`, rec.Body.String())

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote_addr", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"forwarded_for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.7"},
		{"real_ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.1:1", "198.51.100.2"},
		{"ipv6", nil, "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/users", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"size":5`)
	assert.Contains(t, out, `"path":"/health"`)
}

func TestOAuthState(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		issue := httptest.NewRecorder()
		state, err := IssueOAuthState(issue, httptest.NewRequest("GET", "/api/auth/google", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, state)

		cookies := issue.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, OAuthStateCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 600, cookies[0].MaxAge)

		req := httptest.NewRequest("GET", "/api/auth/google/callback?state="+state, nil)
		req.AddCookie(cookies[0])
		verify := httptest.NewRecorder()
		assert.True(t, VerifyOAuthState(verify, req, state))

		// The cookie is cleared after use.
		cleared := verify.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Equal(t, -1, cleared[0].MaxAge)
	})

	t.Run("states are random", func(t *testing.T) {
		a, err := IssueOAuthState(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		b, err := IssueOAuthState(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("mismatch", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: OAuthStateCookie, Value: "expected"})
		assert.False(t, VerifyOAuthState(httptest.NewRecorder(), req, "forged"))
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.False(t, VerifyOAuthState(httptest.NewRecorder(), req, "anything"))
	})

	t.Run("empty state", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: OAuthStateCookie, Value: "expected"})
		assert.False(t, VerifyOAuthState(httptest.NewRecorder(), req, ""))
	})
}
