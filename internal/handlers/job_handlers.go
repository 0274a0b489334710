package handlers

import (
	"net/http"

	"steelstore/internal/analytics"
	"steelstore/internal/caching"
	"steelstore/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes the maintenance surface: scheduled-job visibility,
// an on-demand dashboard recompute and a tenant cache flush.
type JobHandlers struct {
	scheduler        *background.JobScheduler
	analyticsService *analytics.Service
	cacheService     caching.CacheService
}

func NewJobHandlers(scheduler *background.JobScheduler, analyticsService *analytics.Service, cacheService caching.CacheService) *JobHandlers {
	return &JobHandlers{
		scheduler:        scheduler,
		analyticsService: analyticsService,
		cacheService:     cacheService,
	}
}

// GetJobStatus handles GET /jobs/status
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	if _, err := tenantFromContext(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.scheduler.JobStatus())
}

// TriggerDashboardRefresh handles POST /jobs/dashboard-refresh
func (h *JobHandlers) TriggerDashboardRefresh(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	if err := h.analyticsService.RefreshDashboardStats(c.Request().Context(), tenantID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to refresh dashboard stats")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Dashboard stats refreshed",
	})
}

// InvalidateCache handles POST /cache/invalidate
func (h *JobHandlers) InvalidateCache(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	if err := h.cacheService.InvalidateTenantCache(c.Request().Context(), tenantID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to invalidate cache")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Tenant cache invalidated",
	})
}
