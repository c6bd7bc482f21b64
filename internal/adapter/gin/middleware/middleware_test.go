package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"user-sync/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== REQUEST ID TESTS ====================

func TestRequestID_Generates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/ping", nil)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(logger.RequestIDHeader))
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/ping", http.Header{logger.RequestIDHeader: {"abc"}})

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", w.Header().Get(logger.RequestIDHeader))
}

// ==================== LOGGER / RECOVERY TESTS ====================

func TestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	serve(r, http.MethodGet, "/ok", nil)
	serve(r, http.MethodGet, "/bad", nil)
	serve(r, http.MethodGet, "/boom", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

// ==================== RATE LIMITER TESTS ====================

func setupLimiter(t *testing.T, cfg RateLimiterConfig) (*gin.Engine, *RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, cfg, zaptest.NewLogger(t))
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/v1/users", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, rl, mr
}

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	r, _, _ := setupLimiter(t, RateLimiterConfig{Enabled: true, RequestsPerSecond: 1, BurstCapacity: 3})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/users", nil).Code, "request %d", i)
	}

	w := serve(r, http.MethodGet, "/v1/users", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_Refills(t *testing.T) {
	r, rl, _ := setupLimiter(t, RateLimiterConfig{Enabled: true, RequestsPerSecond: 2, BurstCapacity: 1})
	start := rl.now()

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/users", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/v1/users", nil).Code)

	rl.now = func() time.Time { return start.Add(time.Second) }
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/users", nil).Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	r, _, _ := setupLimiter(t, RateLimiterConfig{Enabled: false, RequestsPerSecond: 1, BurstCapacity: 1})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/users", nil).Code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	r, _, mr := setupLimiter(t, RateLimiterConfig{Enabled: true, RequestsPerSecond: 1, BurstCapacity: 1})
	mr.Close()

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/users", nil).Code)
}

func TestRateLimiter_NilPassesThrough(t *testing.T) {
	var rl *RateLimiter
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
}
