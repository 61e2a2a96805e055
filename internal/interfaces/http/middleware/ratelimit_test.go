package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/interfaces/http/dto"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("budget counts down within a window", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		defer limiter.Stop()

		ok, remaining := limiter.Allow("owner:a")
		assert.True(t, ok)
		assert.Equal(t, 2, remaining)

		limiter.Allow("owner:a")
		ok, remaining = limiter.Allow("owner:a")
		assert.True(t, ok)
		assert.Equal(t, 0, remaining)

		ok, _ = limiter.Allow("owner:a")
		assert.False(t, ok)
	})

	t.Run("keys have independent budgets", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		defer limiter.Stop()

		ok, _ := limiter.Allow("owner:a")
		assert.True(t, ok)
		ok, _ = limiter.Allow("owner:a")
		assert.False(t, ok)

		ok, _ = limiter.Allow("owner:b")
		assert.True(t, ok)
	})

	t.Run("budget refills when the window rolls over", func(t *testing.T) {
		limiter := NewRateLimiter(1, 20*time.Millisecond)
		defer limiter.Stop()

		ok, _ := limiter.Allow("ip:1.2.3.4")
		require.True(t, ok)
		ok, _ = limiter.Allow("ip:1.2.3.4")
		require.False(t, ok)

		time.Sleep(30 * time.Millisecond)

		ok, remaining := limiter.Allow("ip:1.2.3.4")
		assert.True(t, ok)
		assert.Equal(t, 0, remaining)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(limiter))
		router.GET("/bookings", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("requests over budget get 429 with the standard envelope", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)
		defer limiter.Stop()
		router := newRouter(limiter)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRateLimited, resp.Error.Code)
	})

	t.Run("responses expose the limit headers", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		defer limiter.Stop()
		router := newRouter(limiter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))

		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("authenticated requests are keyed by owner, not IP", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		defer limiter.Stop()

		router := gin.New()
		ownerA := true
		router.Use(func(c *gin.Context) {
			// Stand-in for the JWT middleware planting the owner claim
			if ownerA {
				c.Set(JWTOwnerIDKey, "11111111-1111-1111-1111-111111111111")
			} else {
				c.Set(JWTOwnerIDKey, "22222222-2222-2222-2222-222222222222")
			}
			c.Next()
		})
		router.Use(RateLimit(limiter))
		router.GET("/bookings", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
		require.Equal(t, http.StatusOK, w.Code)

		// Same owner, same IP: over budget
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		// Different owner from the same IP still has its own budget
		ownerA = false
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	router := gin.New()
	router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-API-Key")
	}))
	router.GET("/bookings", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	get := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("key-a"))
	assert.Equal(t, http.StatusTooManyRequests, get("key-a"))
	assert.Equal(t, http.StatusOK, get("key-b"))
}
