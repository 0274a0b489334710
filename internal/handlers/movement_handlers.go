package handlers

import (
	"net/http"

	"steelstore/internal/common"
	"steelstore/internal/models"
	"steelstore/internal/services"

	"github.com/labstack/echo/v4"
)

// MovementHandlers handles HTTP requests for the stock movement ledger.
type MovementHandlers struct {
	movementService services.MovementService
}

func NewMovementHandlers(movementService services.MovementService) *MovementHandlers {
	return &MovementHandlers{movementService: movementService}
}

// SearchMovements handles GET /movements
func (h *MovementHandlers) SearchMovements(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	filter := &models.MovementSearchFilter{
		Limit:  intQueryParam(c, "limit", 100),
		Offset: intQueryParam(c, "offset", 0),
	}
	if raw := c.QueryParam("product_id"); raw != "" {
		productID, err := common.ValidateUUID(raw, "product_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.ProductID = &productID
	}
	if kind := c.QueryParam("kind"); kind != "" {
		filter.Kind = &kind
	}
	if from := c.QueryParam("date_from"); from != "" {
		filter.DateFrom = &from
	}
	if to := c.QueryParam("date_to"); to != "" {
		filter.DateTo = &to
	}

	movements, err := h.movementService.Search(c.Request().Context(), tenantID, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"count":     len(movements),
	})
}

// GetProductHistory handles GET /products/:id/movements
func (h *MovementHandlers) GetProductHistory(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	movements, err := h.movementService.History(c.Request().Context(), tenantID, productID, intQueryParam(c, "limit", 50))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load movement history")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"count":     len(movements),
	})
}
