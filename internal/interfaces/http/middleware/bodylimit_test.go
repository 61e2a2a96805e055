package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/interfaces/http/dto"
)

func TestBodyLimit(t *testing.T) {
	newRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/bookings", func(c *gin.Context) {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.String(http.StatusOK, "%d", len(body))
		})
		return router
	}

	t.Run("small body passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("ok"))
		newRouter(64).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Body.String())
	})

	t.Run("declared oversize is refused before the handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(strings.Repeat("x", 100)))
		newRouter(10).ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeTooLarge, resp.Error.Code)
	})

	t.Run("streamed body is capped at the limit", func(t *testing.T) {
		// No Content-Length, so the up-front check cannot fire
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bookings", io.NopCloser(strings.NewReader(strings.Repeat("x", 100))))
		req.ContentLength = -1
		newRouter(10).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
