package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLocalLimiter_RefillsOverTime(t *testing.T) {
	l := newLocalLimiter(2, time.Minute)
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"))

	now = now.Add(30 * time.Second)
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
}

func TestLocalLimiter_SweepsIdleVisitors(t *testing.T) {
	l := newLocalLimiter(1, time.Minute)
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(visitorIdle + time.Second)
	l.allow("b")

	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}

func TestLocalRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.POST("/users", LocalRateLimit(1, time.Hour, KeyByIPAndPath(), AllowPrivateIP()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, post(r, "203.0.113.7").Code)
	w := post(r, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, http.StatusCreated, post(r, "192.168.1.10").Code)
	assert.Equal(t, http.StatusCreated, post(r, "192.168.1.10").Code)
}
