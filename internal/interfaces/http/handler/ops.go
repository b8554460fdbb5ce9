package handler

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/infrastructure/cache"
	"github.com/batterydepartment/backend/internal/infrastructure/event"
	"github.com/batterydepartment/backend/internal/infrastructure/scheduler"
	"github.com/batterydepartment/backend/internal/infrastructure/storage"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OpsHandler exposes operational endpoints for the admin dashboard:
// cache statistics, background job triggers and outbox health.
type OpsHandler struct {
	BaseHandler
	responseCache *cache.ResponseCache
	outboxRepo    *event.GormOutboxRepository
	stockMonitor  *scheduler.StockMonitor
	exportCron    *scheduler.ExportCron
	jobs          *scheduler.Scheduler
	exportStore   *storage.S3ObjectStore
	exportPrefix  string
}

// NewOpsHandler creates an OpsHandler. Any dependency may be nil when the
// corresponding subsystem is disabled.
func NewOpsHandler(
	responseCache *cache.ResponseCache,
	outboxRepo *event.GormOutboxRepository,
	stockMonitor *scheduler.StockMonitor,
	exportCron *scheduler.ExportCron,
	jobs *scheduler.Scheduler,
	exportStore *storage.S3ObjectStore,
	exportPrefix string,
) *OpsHandler {
	return &OpsHandler{
		responseCache: responseCache,
		outboxRepo:    outboxRepo,
		stockMonitor:  stockMonitor,
		exportCron:    exportCron,
		jobs:          jobs,
		exportStore:   exportStore,
		exportPrefix:  exportPrefix,
	}
}

// CacheStatsResponse reports response cache effectiveness
type CacheStatsResponse struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// CacheStats returns hit, miss and eviction counters
func (h *OpsHandler) CacheStats(c *gin.Context) {
	if h.responseCache == nil {
		h.NotFound(c, "Response cache is not enabled")
		return
	}

	hits, misses, evictions := h.responseCache.GetStats()
	h.Success(c, CacheStatsResponse{
		Entries:   h.responseCache.Len(),
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
	})
}

// FlushCache drops every cached response
func (h *OpsHandler) FlushCache(c *gin.Context) {
	if h.responseCache == nil {
		h.NotFound(c, "Response cache is not enabled")
		return
	}

	h.responseCache.InvalidateAll()
	h.NoContent(c)
}

// OutboxStats returns outbox entry counts by status
func (h *OpsHandler) OutboxStats(c *gin.Context) {
	if h.outboxRepo == nil {
		h.NotFound(c, "Outbox is not enabled")
		return
	}

	counts, err := h.outboxRepo.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, counts)
}

// StockMonitorStatus reports the monitor's last sweep and flagged items
func (h *OpsHandler) StockMonitorStatus(c *gin.Context) {
	if h.stockMonitor == nil {
		h.NotFound(c, "Stock monitor is not enabled")
		return
	}

	h.Success(c, h.stockMonitor.Status())
}

// ExportHistoryEntry is one generated inventory snapshot
type ExportHistoryEntry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ListExports returns previously generated inventory export files
func (h *OpsHandler) ListExports(c *gin.Context) {
	if h.exportStore == nil {
		h.NotFound(c, "Inventory export is not enabled")
		return
	}

	objects, err := h.exportStore.List(c.Request.Context(), h.exportPrefix, 100)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	entries := make([]ExportHistoryEntry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, ExportHistoryEntry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	h.Success(c, entries)
}

// RunStockSweep triggers one stock monitor pass outside the schedule
func (h *OpsHandler) RunStockSweep(c *gin.Context) {
	if h.stockMonitor == nil {
		h.NotFound(c, "Stock monitor is not enabled")
		return
	}

	h.stockMonitor.RunOnce(c.Request.Context())
	h.Success(c, gin.H{"triggered": true})
}

// TriggerExport enqueues an inventory export for today
func (h *OpsHandler) TriggerExport(c *gin.Context) {
	if h.exportCron == nil {
		h.NotFound(c, "Export scheduler is not enabled")
		return
	}

	if err := h.exportCron.TriggerExport(time.Now()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"triggered": true})
}

// TriggerReindex enqueues a full catalog reindex
func (h *OpsHandler) TriggerReindex(c *gin.Context) {
	if h.jobs == nil {
		h.NotFound(c, "Job scheduler is not enabled")
		return
	}

	now := time.Now()
	job := scheduler.NewJob(scheduler.JobTypeSearchReindex, now, now, 1)
	if err := h.jobs.SubmitJob(job); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"triggered": true, "job_id": job.ID})
}

// RegisterRoutes registers operational routes, admin only
func (h *OpsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ops := rg.Group("/ops")
	ops.Use(middleware.RequireRoles(identity.RoleAdmin))
	{
		ops.GET("/cache/stats", h.CacheStats)
		ops.POST("/cache/flush", h.FlushCache)
		ops.GET("/outbox/stats", h.OutboxStats)
		ops.GET("/stock-monitor", h.StockMonitorStatus)
		ops.POST("/stock-sweep", h.RunStockSweep)
		ops.GET("/exports/inventory", h.ListExports)
		ops.POST("/exports/inventory", h.TriggerExport)
		ops.POST("/search/reindex", h.TriggerReindex)
	}
}
