package handlers

import (
	"net/http"

	"steelstore/internal/common"
	"steelstore/internal/models"
	"steelstore/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReceivingHandlers handles HTTP requests for stock receivings.
type ReceivingHandlers struct {
	receivingService services.ReceivingService
}

func NewReceivingHandlers(receivingService services.ReceivingService) *ReceivingHandlers {
	return &ReceivingHandlers{receivingService: receivingService}
}

// ListReceivings handles GET /receivings
//
// The list screen is served from the in-memory view: search text, payment
// status, vendor, amount bounds, date range, the outstanding toggle, sort
// and page all apply against the current snapshot, with aggregate stats
// computed over the filtered set.
func (h *ReceivingHandlers) ListReceivings(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	minTotal, err := floatQueryParam(c, "min_total")
	if err != nil {
		return err
	}
	maxTotal, err := floatQueryParam(c, "max_total")
	if err != nil {
		return err
	}

	if from := c.QueryParam("date_from"); from != "" {
		if err := common.ValidateDateFormat(from, "date_from"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if to := c.QueryParam("date_to"); to != "" {
		if err := common.ValidateDateFormat(to, "date_to"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if vendorID := c.QueryParam("vendor_id"); vendorID != "" {
		if _, err := common.ValidateUUID(vendorID, "vendor_id"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	page, pageSize, err := common.ValidatePaginationParams(intQueryParam(c, "page", 1), intQueryParam(c, "page_size", 0))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	query := services.ReceivingListQuery{
		Search:          c.QueryParam("search"),
		PaymentStatus:   c.QueryParam("payment_status"),
		VendorID:        c.QueryParam("vendor_id"),
		MinTotal:        minTotal,
		MaxTotal:        maxTotal,
		DateFrom:        c.QueryParam("date_from"),
		DateTo:          c.QueryParam("date_to"),
		OutstandingOnly: boolQueryParam(c, "outstanding"),
		SortBy:          c.QueryParam("sort_by"),
		SortOrder:       c.QueryParam("sort_order"),
		Page:            page,
		PageSize:        pageSize,
	}

	view, err := h.receivingService.ListView(c.Request().Context(), tenantID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load receivings")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"receivings":  view.Items,
		"total_items": view.TotalItems,
		"total_pages": view.TotalPages,
		"page":        view.Page,
		"page_size":   view.PageSize,
		"stats":       view.Stats,
	})
}

// GetReceiving handles GET /receivings/:id
func (h *ReceivingHandlers) GetReceiving(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	receivingID, err := common.ValidateUUID(c.Param("id"), "receiving_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receiving, err := h.receivingService.GetByID(c.Request().Context(), tenantID, receivingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Receiving not found")
	}
	return c.JSON(http.StatusOK, receiving)
}

// CreateReceiving handles POST /receivings
func (h *ReceivingHandlers) CreateReceiving(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		VendorID     uuid.UUID `json:"vendor_id"`
		ReferenceNo  string    `json:"reference_no"`
		ReceivedDate string    `json:"received_date"`
		PaidAmount   float64   `json:"paid_amount"`
		Notes        *string   `json:"notes"`
		Items        []struct {
			ProductID uuid.UUID `json:"product_id"`
			Quantity  float64   `json:"quantity"`
			UnitPrice float64   `json:"unit_price"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateDateFormat(req.ReceivedDate, "received_date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receiving := &models.StockReceiving{
		VendorID:     req.VendorID,
		ReferenceNo:  req.ReferenceNo,
		ReceivedDate: req.ReceivedDate,
		PaidAmount:   req.PaidAmount,
		Notes:        req.Notes,
	}
	for _, item := range req.Items {
		receiving.Items = append(receiving.Items, &models.ReceivingItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := h.receivingService.Create(c.Request().Context(), tenantID, receiving); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, receiving)
}

// UpdateReceiving handles PUT /receivings/:id
//
// Only the header fields are editable. Items drive stock and vendor
// balances; fixing them means deleting and re-entering the receiving.
func (h *ReceivingHandlers) UpdateReceiving(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	receivingID, err := common.ValidateUUID(c.Param("id"), "receiving_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		ReferenceNo  string  `json:"reference_no"`
		ReceivedDate string  `json:"received_date"`
		Notes        *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateDateFormat(req.ReceivedDate, "received_date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receiving := &models.StockReceiving{
		ID:           receivingID,
		ReferenceNo:  req.ReferenceNo,
		ReceivedDate: req.ReceivedDate,
		Notes:        req.Notes,
	}
	if err := h.receivingService.UpdateHeader(c.Request().Context(), tenantID, receiving); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Receiving updated successfully",
	})
}

// DeleteReceiving handles DELETE /receivings/:id
func (h *ReceivingHandlers) DeleteReceiving(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	receivingID, err := common.ValidateUUID(c.Param("id"), "receiving_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.receivingService.Delete(c.Request().Context(), tenantID, receivingID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete receiving")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Receiving deleted successfully",
	})
}
