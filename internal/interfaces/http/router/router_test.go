package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func echo(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestRouter_Setup(t *testing.T) {
	t.Run("mounts under /api/v1 by default", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("system", "/system")
		group.GET("/ping", echo("pong"))

		NewRouter(engine).Register(group).Setup()

		w := serve(engine, http.MethodGet, "/api/v1/system/ping")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("version prefix is configurable", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("system", "/system")
		group.GET("/ping", echo("pong"))

		NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/system/ping").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
	})

	t.Run("router middleware wraps every mounted route", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		r.Use(func(c *gin.Context) {
			c.Header("X-Tenant-Check", "passed")
			c.Next()
		})

		group := NewDomainGroup("scheduling", "/scheduling")
		group.GET("/bookings", echo("bookings"))
		r.Register(group).Setup()

		w := serve(engine, http.MethodGet, "/api/v1/scheduling/bookings")
		assert.Equal(t, "passed", w.Header().Get("X-Tenant-Check"))
	})

	t.Run("mounts several domains side by side", func(t *testing.T) {
		engine := gin.New()
		scheduling := NewDomainGroup("scheduling", "/scheduling")
		scheduling.GET("/bookings", echo("bookings"))
		billing := NewDomainGroup("billing", "/billing")
		billing.GET("/quotations", echo("quotations"))

		NewRouter(engine).Register(scheduling).Register(billing).Setup()

		assert.Equal(t, "bookings", serve(engine, http.MethodGet, "/api/v1/scheduling/bookings").Body.String())
		assert.Equal(t, "quotations", serve(engine, http.MethodGet, "/api/v1/billing/quotations").Body.String())
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	methods := []struct {
		register func(dg *DomainGroup, h gin.HandlerFunc)
		method   string
	}{
		{func(dg *DomainGroup, h gin.HandlerFunc) { dg.GET("/bookings/:id", h) }, http.MethodGet},
		{func(dg *DomainGroup, h gin.HandlerFunc) { dg.POST("/bookings/:id", h) }, http.MethodPost},
		{func(dg *DomainGroup, h gin.HandlerFunc) { dg.PUT("/bookings/:id", h) }, http.MethodPut},
		{func(dg *DomainGroup, h gin.HandlerFunc) { dg.PATCH("/bookings/:id", h) }, http.MethodPatch},
		{func(dg *DomainGroup, h gin.HandlerFunc) { dg.DELETE("/bookings/:id", h) }, http.MethodDelete},
	}

	for _, tc := range methods {
		t.Run(tc.method, func(t *testing.T) {
			engine := gin.New()
			group := NewDomainGroup("scheduling", "/scheduling")
			tc.register(group, echo("ok"))

			group.RegisterRoutes(engine.Group("/api/v1"))

			w := serve(engine, tc.method, "/api/v1/scheduling/bookings/42")
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestDomainGroup_NameAndPrefix(t *testing.T) {
	group := NewDomainGroup("billing", "/billing")

	assert.Equal(t, "billing", group.Name())
	assert.Equal(t, "/billing", group.Prefix())
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("billing", "/billing")
	group.Use(func(c *gin.Context) {
		c.Header("X-Billing-Scope", "owner")
		c.Next()
	})
	group.GET("/invoices", echo("invoices"))

	group.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/billing/invoices")
	assert.Equal(t, "owner", w.Header().Get("X-Billing-Scope"))
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	billing := NewDomainGroup("billing", "/billing")
	billing.Group("quotations", "/quotations").GET("", echo("quotations list"))
	billing.Group("invoices", "/invoices").GET("", echo("invoices list"))

	billing.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, "quotations list", serve(engine, http.MethodGet, "/api/v1/billing/quotations").Body.String())
	assert.Equal(t, "invoices list", serve(engine, http.MethodGet, "/api/v1/billing/invoices").Body.String())
}

func TestDomainGroup_ChainedRegistration(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("scheduling", "/scheduling")
	group.GET("/bookings", echo("list")).
		POST("/bookings", echo("create")).
		DELETE("/bookings/:id", echo("cancel"))

	NewRouter(engine).Register(group).Setup()

	assert.Equal(t, "list", serve(engine, http.MethodGet, "/api/v1/scheduling/bookings").Body.String())
	assert.Equal(t, "create", serve(engine, http.MethodPost, "/api/v1/scheduling/bookings").Body.String())
	assert.Equal(t, "cancel", serve(engine, http.MethodDelete, "/api/v1/scheduling/bookings/7").Body.String())
}
