package handlers

import (
	"net/http"

	"steelstore/internal/common"
	"steelstore/internal/models"
	"steelstore/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PaymentHandlers handles HTTP requests for vendor payments.
type PaymentHandlers struct {
	paymentService services.PaymentService
}

func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

// RecordPayment handles POST /payments
func (h *PaymentHandlers) RecordPayment(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		ReceivingID uuid.UUID `json:"receiving_id"`
		Amount      float64   `json:"amount"`
		Method      string    `json:"method"`
		PaidDate    string    `json:"paid_date"`
		Notes       *string   `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	payment := &models.Payment{
		ReceivingID: &req.ReceivingID,
		Amount:      req.Amount,
		Method:      req.Method,
		PaidDate:    req.PaidDate,
		Notes:       req.Notes,
	}

	receiving, err := h.paymentService.RecordPayment(c.Request().Context(), tenantID, payment)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"payment":   payment,
		"receiving": receiving,
	})
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	paymentID, err := common.ValidateUUID(c.Param("id"), "payment_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.paymentService.GetByID(c.Request().Context(), tenantID, paymentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
	}
	return c.JSON(http.StatusOK, payment)
}

// ListPaymentsByReceiving handles GET /receivings/:id/payments
func (h *PaymentHandlers) ListPaymentsByReceiving(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	receivingID, err := common.ValidateUUID(c.Param("id"), "receiving_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payments, err := h.paymentService.ListByReceiving(c.Request().Context(), tenantID, receivingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load payments")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	})
}

// ListPaymentsByVendor handles GET /vendors/:id/payments
func (h *PaymentHandlers) ListPaymentsByVendor(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payments, err := h.paymentService.ListByVendor(c.Request().Context(), tenantID, vendorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load payments")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	})
}
