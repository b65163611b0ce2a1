package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
)

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		assert.NotEmpty(t, GetRequestID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDHonorsClientHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", w.Header().Get(RequestIDHeader))
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logging.NewFromCore(core)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://console.nexus.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.nexus.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://allowed.example"}

	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://other.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterAllowsBurstThenRejects(t *testing.T) {
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    1,
		burst:   2,
		now:     time.Now,
	}

	allowed, _ := rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = rl.Allow("5.6.7.8")
	assert.True(t, allowed)
}

func TestRateLimiterRefills(t *testing.T) {
	current := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    1,
		burst:   1,
		now:     func() time.Time { return current },
	}

	allowed, _ := rl.Allow("client")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("client")
	assert.False(t, allowed)

	current = current.Add(2 * time.Second)
	allowed, _ = rl.Allow("client")
	assert.True(t, allowed)
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    1,
		burst:   1,
		now:     time.Now,
	}

	r := gin.New()
	r.Use(RateLimit(rl))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}
