package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement kinds. Movements are append-only; corrections are recorded
// as new movements rather than edits.
const (
	MovementReceiving  = "receiving"
	MovementAdjustment = "adjustment"
	MovementSale       = "sale"
	MovementCorrection = "correction"
)

type StockMovement struct {
	ID             uuid.UUID `json:"id" db:"id"`
	TenantID       uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	ProductName    string    `json:"product_name" db:"product_name"`
	Kind           string    `json:"kind" db:"kind"`
	QuantityChange float64   `json:"quantity_change" db:"quantity_change"`
	BalanceAfter   float64   `json:"balance_after" db:"balance_after"`
	Reference      string    `json:"reference" db:"reference"`
	Note           *string   `json:"note" db:"note"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// MovementSearchFilter holds search and filter criteria for movement history queries
type MovementSearchFilter struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Kind      *string    `json:"kind,omitempty"`
	DateFrom  *string    `json:"date_from,omitempty"` // YYYY-MM-DD inclusive
	DateTo    *string    `json:"date_to,omitempty"`   // YYYY-MM-DD inclusive
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
