package handlers

import (
	"net/http"

	"steelstore/internal/common"
	"steelstore/internal/models"
	"steelstore/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for the product catalog.
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// ListProducts handles GET /products
//
// The catalog screen is served from the in-memory list view: search,
// category, stock and price bounds, the low-stock toggle, sort and page all
// apply against the current snapshot.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	minStock, err := floatQueryParam(c, "min_stock")
	if err != nil {
		return err
	}
	maxStock, err := floatQueryParam(c, "max_stock")
	if err != nil {
		return err
	}
	minPrice, err := floatQueryParam(c, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := floatQueryParam(c, "max_price")
	if err != nil {
		return err
	}

	page, pageSize, err := common.ValidatePaginationParams(intQueryParam(c, "page", 1), intQueryParam(c, "page_size", 0))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	query := services.ProductListQuery{
		Search:       c.QueryParam("search"),
		Category:     c.QueryParam("category"),
		MinStock:     minStock,
		MaxStock:     maxStock,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		LowStockOnly: boolQueryParam(c, "low_stock"),
		SortBy:       c.QueryParam("sort_by"),
		SortOrder:    c.QueryParam("sort_order"),
		Page:         page,
		PageSize:     pageSize,
	}

	view, err := h.productService.ListView(c.Request().Context(), tenantID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products":    view.Items,
		"total_items": view.TotalItems,
		"total_pages": view.TotalPages,
		"page":        view.Page,
		"page_size":   view.PageSize,
		"stats":       view.Stats,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productService.GetByID(c.Request().Context(), tenantID, productID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, product)
}

// GetProductByBarcode handles GET /products/barcode/:code
func (h *ProductHandlers) GetProductByBarcode(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	code := c.Param("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Barcode is required")
	}

	product, err := h.productService.GetByBarcode(c.Request().Context(), tenantID, code)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.productService.Create(c.Request().Context(), tenantID, &product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	product.ID = productID

	if err := h.productService.Update(c.Request().Context(), tenantID, &product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.productService.Delete(c.Request().Context(), tenantID, productID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}

// GetCategories handles GET /products/categories
func (h *ProductHandlers) GetCategories(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	counts, err := h.productService.CategoryCounts(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load categories")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": counts,
	})
}

// GetLowStockProducts handles GET /products/low-stock
func (h *ProductHandlers) GetLowStockProducts(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	products, err := h.productService.LowStock(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load low stock products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// AdjustStock handles POST /products/:id/stock
func (h *ProductHandlers) AdjustStock(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Delta     float64 `json:"delta"`
		Reference string  `json:"reference"`
		Note      *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productService.AdjustStock(c.Request().Context(), tenantID, productID, req.Delta, req.Reference, req.Note)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

// SearchProducts handles GET /products/search
//
// Unlike the list view this goes straight to the database, for callers that
// need server-side paging over large catalogs.
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	minStock, err := floatQueryParam(c, "min_stock")
	if err != nil {
		return err
	}
	maxStock, err := floatQueryParam(c, "max_stock")
	if err != nil {
		return err
	}
	minPrice, err := floatQueryParam(c, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := floatQueryParam(c, "max_price")
	if err != nil {
		return err
	}

	filter := &models.ProductSearchFilter{
		Query:     c.QueryParam("q"),
		MinStock:  minStock,
		MaxStock:  maxStock,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Limit:     intQueryParam(c, "limit", 50),
		Offset:    intQueryParam(c, "offset", 0),
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}

	products, err := h.productService.Search(c.Request().Context(), tenantID, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}
