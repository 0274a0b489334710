package models

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	TenantID           uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name               string    `json:"name" db:"name"`
	Phone              *string   `json:"phone" db:"phone"`
	Address            *string   `json:"address" db:"address"`
	GSTIN              *string   `json:"gstin" db:"gstin"`
	OutstandingBalance float64   `json:"outstanding_balance" db:"outstanding_balance"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
