package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TenantID      uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name          string    `json:"name" db:"name"`
	Category      string    `json:"category" db:"category"`
	Unit          string    `json:"unit" db:"unit"`
	UnitPrice     float64   `json:"unit_price" db:"unit_price"`
	CurrentStock  float64   `json:"current_stock" db:"current_stock"`
	MinStockLevel float64   `json:"min_stock_level" db:"min_stock_level"`
	Barcode       *string   `json:"barcode" db:"barcode"`
	Description   *string   `json:"description" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryCount is one entry of the category breakdown used to populate
// filter dropdowns on the catalog screens.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProductSearchFilter holds the server-side search criteria for catalog
// queries. Nil pointer fields are inactive; an explicit zero bound is not.
type ProductSearchFilter struct {
	Query     string   `json:"query,omitempty"`
	Category  *string  `json:"category,omitempty"`
	MinStock  *float64 `json:"min_stock,omitempty"`
	MaxStock  *float64 `json:"max_stock,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	SortBy    string   `json:"sort_by,omitempty"`
	SortOrder string   `json:"sort_order,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Offset    int      `json:"offset,omitempty"`
}
