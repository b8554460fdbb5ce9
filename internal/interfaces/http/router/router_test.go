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

type pingRegistrar struct {
	path string
	body string
}

func (p *pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(p.path, func(c *gin.Context) {
		c.String(http.StatusOK, p.body)
	})
}

type adminPingRegistrar struct{}

func (a *adminPingRegistrar) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "admin pong")
	})
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	r.Register(&pingRegistrar{path: "/ping", body: "pong"})
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Header("X-Stamped", "yes")
		c.Next()
	})
	r.Register(&pingRegistrar{path: "/ping", body: "pong"})
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Stamped"))
}

func TestRouterAdminGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.RegisterAdmin(&adminPingRegistrar{})
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/admin/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin pong", w.Body.String())
}

func TestRouterCachedGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	hits := 0
	cacheMW := func(c *gin.Context) {
		hits++
		c.Next()
	}
	r.RegisterCached(cacheMW, &pingRegistrar{path: "/products", body: "catalog"})
	r.Register(&pingRegistrar{path: "/ping", body: "pong"})
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)

	// The cache middleware must not touch routes outside the cached group.
	req = httptest.NewRequest("GET", "/api/v1/ping", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)
}

func TestRouterSetupReturnsAPIGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	api := r.Setup()
	api.GET("/extra", func(c *gin.Context) {
		c.String(http.StatusOK, "extra")
	})

	req := httptest.NewRequest("GET", "/api/v1/extra", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
