package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, log *zap.Logger, register func(*gin.Engine)) func(method, path string) *httptest.ResponseRecorder {
	t.Helper()
	engine := gin.New()
	engine.Use(GinMiddleware(log))
	register(engine)
	return func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	log, logs := observed()

	do := serve(t, log, func(e *gin.Engine) {
		e.GET("/bookings", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
	})
	w := do("GET", "/bookings?page=2")

	assert.Equal(t, http.StatusOK, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/bookings", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "page=2", fields["query"])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success is info", http.StatusCreated, zapcore.InfoLevel},
		{"client error is warn", http.StatusConflict, zapcore.WarnLevel},
		{"server error is error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observed()
			do := serve(t, log, func(e *gin.Engine) {
				e.POST("/quotations", func(c *gin.Context) {
					c.Status(tt.status)
				})
			})
			do("POST", "/quotations")

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
		})
	}
}

func TestGinMiddleware_SkipsHealthProbes(t *testing.T) {
	log, logs := observed()
	do := serve(t, log, func(e *gin.Engine) {
		e.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "healthy")
		})
	})
	do("GET", "/health")

	assert.Empty(t, logs.All())
}

func TestGinMiddleware_PlantsRequestContext(t *testing.T) {
	log, _ := observed()

	var seenID string
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-55")
		c.Next()
	})
	engine.Use(GinMiddleware(log))
	engine.GET("/invoices", func(c *gin.Context) {
		seenID = GetRequestID(c.Request.Context())
		require.NotNil(t, GetGinLogger(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/invoices", nil)
	engine.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-55", seenID)
}

func TestRecovery(t *testing.T) {
	log, logs := observed()

	engine := gin.New()
	engine.Use(Recovery(log))
	engine.GET("/boom", func(c *gin.Context) {
		panic("rate card corrupted")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "rate card corrupted", entries[0].ContextMap()["panic"])
}

func TestGetGinLogger_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	log := GetGinLogger(c)

	require.NotNil(t, log)
	log.Info("no middleware installed")
}
