package handlers

import (
	"net/http"

	"steelstore/internal/common"
	"steelstore/internal/models"
	"steelstore/internal/services"

	"github.com/labstack/echo/v4"
)

// VendorHandlers handles HTTP requests for vendors.
type VendorHandlers struct {
	vendorService services.VendorService
}

func NewVendorHandlers(vendorService services.VendorService) *VendorHandlers {
	return &VendorHandlers{vendorService: vendorService}
}

// ListVendors handles GET /vendors
func (h *VendorHandlers) ListVendors(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	vendors, err := h.vendorService.List(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load vendors")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// GetVendor handles GET /vendors/:id
func (h *VendorHandlers) GetVendor(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vendor, err := h.vendorService.GetByID(c.Request().Context(), tenantID, vendorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	return c.JSON(http.StatusOK, vendor)
}

// CreateVendor handles POST /vendors
func (h *VendorHandlers) CreateVendor(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	var vendor models.Vendor
	if err := c.Bind(&vendor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.vendorService.Create(c.Request().Context(), tenantID, &vendor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, vendor)
}

// UpdateVendor handles PUT /vendors/:id
func (h *VendorHandlers) UpdateVendor(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var vendor models.Vendor
	if err := c.Bind(&vendor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	vendor.ID = vendorID

	if err := h.vendorService.Update(c.Request().Context(), tenantID, &vendor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, vendor)
}

// DeleteVendor handles DELETE /vendors/:id
func (h *VendorHandlers) DeleteVendor(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.vendorService.Delete(c.Request().Context(), tenantID, vendorID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Vendor deleted successfully",
	})
}

// GetVendorsWithOutstanding handles GET /vendors/outstanding
func (h *VendorHandlers) GetVendorsWithOutstanding(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	vendors, err := h.vendorService.WithOutstanding(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load vendors")
	}

	var total float64
	for _, v := range vendors {
		total += v.OutstandingBalance
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vendors":           vendors,
		"count":             len(vendors),
		"total_outstanding": total,
	})
}
