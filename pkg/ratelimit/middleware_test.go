package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitType(t *testing.T) {
	cases := map[string]RateLimitType{
		"/health":                           RateLimitTypeHealth,
		"/api/v1/webhooks/payments":         RateLimitTypeWebhook,
		"/api/v1/admin/sweep":               RateLimitTypeAdmin,
		"/api/v1/bookings/:id/confirm":      RateLimitTypeBookingCritical,
		"/api/v1/bookings/:id/cancel":       RateLimitTypeBookingCritical,
		"/api/v1/bookings/:id/payments":     RateLimitTypeBookingCritical,
		"/api/v1/bookings/:id":              RateLimitTypeBooking,
		"/api/v1/spaces/:id/availability":   RateLimitTypeBooking,
		"/api/v1/bookings/:id/refund-quote": RateLimitTypeBooking,
		"/api/v1/spaces":                    RateLimitTypePublic,
		"/api/v1/somewhere":                 RateLimitTypeDefault,
	}
	for path, want := range cases {
		assert.Equal(t, want, getRateLimitType(path), path)
	}
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(nil, config.RateLimitConfig{Enabled: false, BookingRequests: 5})

	result, err := rl.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 5, result.Limit)
}

func TestWhitelistedIPSkipsRedis(t *testing.T) {
	rl := NewRateLimiter(nil, config.RateLimitConfig{Enabled: true, WhitelistedIPs: []string{"10.0.0.9"}})

	result, err := rl.IsAllowed(context.Background(), "10.0.0.9", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", getClientIP(c))
}

func TestMiddlewareFailsOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	engine := gin.New()
	engine.Use(Middleware(NewRateLimiter(client, config.RateLimitConfig{Enabled: true, BookingRequests: 10})))
	engine.GET("/api/v1/bookings/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookBurstIsNeverThrottled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// A nil client panics if the limiter ever reaches Redis
	engine := gin.New()
	engine.Use(Middleware(NewRateLimiter(nil, config.RateLimitConfig{Enabled: true, DefaultRequests: 1})))
	engine.POST("/api/v1/webhooks/payments", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
