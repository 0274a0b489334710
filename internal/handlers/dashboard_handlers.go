package handlers

import (
	"net/http"

	"steelstore/internal/analytics"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers serves the aggregate figures on the home screen.
type DashboardHandlers struct {
	analyticsService *analytics.Service
}

func NewDashboardHandlers(analyticsService *analytics.Service) *DashboardHandlers {
	return &DashboardHandlers{analyticsService: analyticsService}
}

// GetDashboardStats handles GET /dashboard/stats
func (h *DashboardHandlers) GetDashboardStats(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.analyticsService.DashboardStats(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute dashboard stats")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stats": stats,
	})
}
