package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values for a stock receiving. The status is derived from
// paid_amount relative to total_amount, never set directly by callers.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

type StockReceiving struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	TenantID      uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	VendorID      uuid.UUID        `json:"vendor_id" db:"vendor_id"`
	VendorName    string           `json:"vendor_name" db:"vendor_name"`
	ReferenceNo   string           `json:"reference_no" db:"reference_no"`
	ReceivedDate  string           `json:"received_date" db:"received_date"` // YYYY-MM-DD
	Items         []*ReceivingItem `json:"items,omitempty" db:"-"`
	TotalAmount   float64          `json:"total_amount" db:"total_amount"`
	PaidAmount    float64          `json:"paid_amount" db:"paid_amount"`
	PaymentStatus string           `json:"payment_status" db:"payment_status"`
	Notes         *string          `json:"notes" db:"notes"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// Outstanding returns the unpaid remainder of the receiving.
func (r *StockReceiving) Outstanding() float64 {
	out := r.TotalAmount - r.PaidAmount
	if out < 0 {
		return 0
	}
	return out
}

// DerivePaymentStatus computes the payment status from the amounts.
func (r *StockReceiving) DerivePaymentStatus() string {
	switch {
	case r.PaidAmount <= 0:
		return PaymentStatusUnpaid
	case r.PaidAmount < r.TotalAmount:
		return PaymentStatusPartial
	default:
		return PaymentStatusPaid
	}
}

type ReceivingItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ReceivingID uuid.UUID `json:"receiving_id" db:"receiving_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	LineTotal   float64   `json:"line_total" db:"line_total"`
}
