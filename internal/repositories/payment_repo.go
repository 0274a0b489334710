package repositories

import (
	"context"

	"steelstore/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error)
	ListByReceiving(ctx context.Context, tenantID, receivingID uuid.UUID) ([]*models.Payment, error)
	ListByVendor(ctx context.Context, tenantID, vendorID uuid.UUID) ([]*models.Payment, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, tenant_id, receiving_id, vendor_id, amount, method, paid_date, reference, notes, created_at`

func (r *paymentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&payment.ID, &payment.TenantID, &payment.ReceivingID, &payment.VendorID, &payment.Amount, &payment.Method, &payment.PaidDate, &payment.Reference, &payment.Notes, &payment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) ListByReceiving(ctx context.Context, tenantID, receivingID uuid.UUID) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1 AND receiving_id = $2
		ORDER BY paid_date DESC, created_at DESC
	`
	return r.queryPayments(ctx, query, tenantID, receivingID)
}

func (r *paymentRepo) ListByVendor(ctx context.Context, tenantID, vendorID uuid.UUID) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1 AND vendor_id = $2
		ORDER BY paid_date DESC, created_at DESC
	`
	return r.queryPayments(ctx, query, tenantID, vendorID)
}

func (r *paymentRepo) queryPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.TenantID, &payment.ReceivingID, &payment.VendorID, &payment.Amount, &payment.Method, &payment.PaidDate, &payment.Reference, &payment.Notes, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
