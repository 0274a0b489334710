package handlers

import (
	"net/http"
	"strconv"

	"steelstore/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// tenantFromContext pulls the tenant injected by the JWT middleware.
func tenantFromContext(c echo.Context) (uuid.UUID, error) {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found in context")
	}
	return tenantID, nil
}

// floatQueryParam distinguishes an absent query parameter from an explicit
// zero. "min_total=0" is an active bound; no parameter means unbounded.
func floatQueryParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return &value, nil
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func boolQueryParam(c echo.Context, name string) bool {
	raw := c.QueryParam(name)
	return raw == "true" || raw == "1"
}
