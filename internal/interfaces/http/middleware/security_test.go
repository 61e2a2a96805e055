package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func secureRouter(cfg SecurityConfig) *gin.Engine {
	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/bookings", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func headersFor(router *gin.Engine) http.Header {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	return w.Header()
}

func TestSecure_BaselineHeaders(t *testing.T) {
	h := headersFor(secureRouter(DefaultSecurityConfig()))

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
}

func TestSecure_HSTSOffByDefault(t *testing.T) {
	h := headersFor(secureRouter(DefaultSecurityConfig()))

	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestSecure_HSTSWhenEnabled(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	cfg.HSTSMaxAge = 3600
	cfg.HSTSIncludeSubdomains = true
	cfg.HSTSPreload = true

	h := headersFor(secureRouter(cfg))

	assert.Equal(t, "max-age=3600; includeSubDomains; preload", h.Get("Strict-Transport-Security"))
}

func TestSecure_DirectivesCanBeDisabled(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.CSPEnabled = false
	cfg.PermissionsPolicyEnabled = false

	h := headersFor(secureRouter(cfg))

	assert.Empty(t, h.Get("Content-Security-Policy"))
	assert.Empty(t, h.Get("Permissions-Policy"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
}
