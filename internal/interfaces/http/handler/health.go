package handler

import (
	"net/http"
	"time"

	"github.com/batterydepartment/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	BaseHandler
	db        *persistence.Database
	redis     *redis.Client
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. The redis client may be nil
// when Redis is not configured.
func NewHealthHandler(db *persistence.Database, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		startTime: time.Now(),
	}
}

// HealthResponse reports overall and per-dependency status
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// Health reports the health of the service and its dependencies.
// Returns 503 when any dependency check fails.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "down: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "up"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	response := HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		Checks: checks,
	}

	status := http.StatusOK
	if !healthy {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

// RegisterRoutes registers the health endpoint
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}
