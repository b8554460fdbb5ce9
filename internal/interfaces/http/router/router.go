package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers routes on the public API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// AdminRouteRegistrar registers routes on the /admin API group. Handlers
// enforce role requirements themselves via middleware.RequireRoles.
type AdminRouteRegistrar interface {
	RegisterAdminRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration. Routes are split across three
// surfaces under /api/<version>: the public group, an optional cached
// group that shares the same prefix but carries the response cache
// middleware, and the /admin group for back-office operations.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
	cached     []RouteRegistrar
	cacheMW    gin.HandlerFunc
	admin      []AdminRouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Use adds middleware that applies to the whole API group, including the
// admin surface. Engine-wide middleware (logging, recovery, CORS) belongs
// on the engine itself, before NewRouter.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds RouteRegistrars for the public API group
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// RegisterCached adds RouteRegistrars whose GET responses pass through the
// given caching middleware. A nil middleware registers them uncached.
func (r *Router) RegisterCached(cacheMW gin.HandlerFunc, registrars ...RouteRegistrar) *Router {
	r.cacheMW = cacheMW
	r.cached = append(r.cached, registrars...)
	return r
}

// RegisterAdmin adds registrars for the /admin group
func (r *Router) RegisterAdmin(registrars ...AdminRouteRegistrar) *Router {
	r.admin = append(r.admin, registrars...)
	return r
}

// Setup registers all routes with the engine and returns the API group so
// callers can attach ad-hoc routes with extra middleware.
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.middleware...)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	if len(r.cached) > 0 {
		cachedGroup := api.Group("")
		if r.cacheMW != nil {
			cachedGroup.Use(r.cacheMW)
		}
		for _, registrar := range r.cached {
			registrar.RegisterRoutes(cachedGroup)
		}
	}

	if len(r.admin) > 0 {
		adminGroup := api.Group("/admin")
		for _, registrar := range r.admin {
			registrar.RegisterAdminRoutes(adminGroup)
		}
	}

	return api
}
