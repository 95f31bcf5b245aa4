package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hugh/care-package/internal/api/dto"
	"github.com/hugh/care-package/internal/api/handlers"
	"github.com/hugh/care-package/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	t.Run("database only", func(t *testing.T) {
		h := handlers.NewHealthHandler(testutil.SetupTestDB(t), nil)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest("GET", "/health", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp handlers.HealthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "care-package-api", resp.Service)
		assert.Equal(t, "healthy", resp.Services["database"])
		assert.NotContains(t, resp.Services, "redis")
		assert.False(t, resp.Timestamp.IsZero())
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		h := handlers.NewHealthHandler(testutil.SetupTestDB(t), client)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest("GET", "/health", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Contains(t, rr.Body.String(), `"redis":"healthy"`)
	})

	t.Run("redis down", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { client.Close() })
		mr.Close()
		h := handlers.NewHealthHandler(testutil.SetupTestDB(t), client)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest("GET", "/health", nil))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		assert.Contains(t, rr.Body.String(), `"status":"unhealthy"`)
	})

	t.Run("database closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		rr := httptest.NewRecorder()
		handlers.NewHealthHandler(db, nil).Health(rr, httptest.NewRequest("GET", "/health", nil))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	})
}

func TestHealthHandler_ReadyAndInfo(t *testing.T) {
	h := handlers.NewHealthHandler(testutil.SetupTestDB(t), nil)

	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest("GET", "/ready", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "ok", rr.Body.String())

	rr = httptest.NewRecorder()
	h.Info(rr, httptest.NewRequest("GET", "/api", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var info dto.APIInfoResponse
	testutil.ParseJSONResponse(t, rr, &info)
	assert.Equal(t, "Care Package API Server", info.Message)
	assert.Equal(t, handlers.APIVersion, info.Version)
}
