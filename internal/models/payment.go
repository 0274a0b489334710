package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ReceivingID *uuid.UUID `json:"receiving_id" db:"receiving_id"`
	VendorID    uuid.UUID  `json:"vendor_id" db:"vendor_id"`
	Amount      float64    `json:"amount" db:"amount"`
	Method      string     `json:"method" db:"method"` // cash, upi, bank, cheque
	PaidDate    string     `json:"paid_date" db:"paid_date"` // YYYY-MM-DD
	Reference   *string    `json:"reference" db:"reference"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
