package repositories

import (
	"context"
	"fmt"

	"steelstore/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReceivingRepository interface {
	CreateWithItems(ctx context.Context, receiving *models.StockReceiving) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StockReceiving, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.StockReceiving, error)
	UpdateHeader(ctx context.Context, receiving *models.StockReceiving) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ApplyPayment(ctx context.Context, payment *models.Payment) (*models.StockReceiving, error)
}

type receivingRepo struct {
	db DB
}

func NewReceivingRepo(db DB) ReceivingRepository {
	return &receivingRepo{db: db}
}

const receivingColumns = `r.id, r.tenant_id, r.vendor_id, v.name, r.reference_no, r.received_date, r.total_amount, r.paid_amount, r.payment_status, r.notes, r.created_at, r.updated_at`

// CreateWithItems persists a receiving, its line items, the stock increments
// with their movements, and the vendor's outstanding balance bump in a
// single transaction. Either everything lands or nothing does.
func (r *receivingRepo) CreateWithItems(ctx context.Context, receiving *models.StockReceiving) error {
	if len(receiving.Items) == 0 {
		return fmt.Errorf("receiving must have at least one item")
	}

	receiving.TotalAmount = 0
	for _, item := range receiving.Items {
		item.LineTotal = item.Quantity * item.UnitPrice
		receiving.TotalAmount += item.LineTotal
	}
	receiving.PaymentStatus = receiving.DerivePaymentStatus()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	headerQuery := `
		INSERT INTO stock_receivings (id, tenant_id, vendor_id, reference_no, received_date, total_amount, paid_amount, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, headerQuery, receiving.ID, receiving.TenantID, receiving.VendorID, receiving.ReferenceNo, receiving.ReceivedDate, receiving.TotalAmount, receiving.PaidAmount, receiving.PaymentStatus, receiving.Notes)
	if err != nil {
		return err
	}

	for _, item := range receiving.Items {
		item.ReceivingID = receiving.ID
		itemQuery := `
			INSERT INTO receiving_items (id, receiving_id, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = tx.Exec(ctx, itemQuery, item.ID, receiving.ID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return err
		}

		if err := bumpStock(ctx, tx, receiving.TenantID, item.ProductID, item.Quantity, models.MovementReceiving, receiving.ReferenceNo); err != nil {
			return err
		}
	}

	balanceQuery := `
		UPDATE vendors
		SET outstanding_balance = outstanding_balance + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	_, err = tx.Exec(ctx, balanceQuery, receiving.Outstanding(), receiving.TenantID, receiving.VendorID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *receivingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StockReceiving, error) {
	receiving := &models.StockReceiving{}
	query := `
		SELECT ` + receivingColumns + `
		FROM stock_receivings r
		JOIN vendors v ON v.tenant_id = r.tenant_id AND v.id = r.vendor_id
		WHERE r.tenant_id = $1 AND r.id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&receiving.ID, &receiving.TenantID, &receiving.VendorID, &receiving.VendorName, &receiving.ReferenceNo, &receiving.ReceivedDate, &receiving.TotalAmount, &receiving.PaidAmount, &receiving.PaymentStatus, &receiving.Notes, &receiving.CreatedAt, &receiving.UpdatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	receiving.Items = items[id]
	return receiving, nil
}

// List returns the tenant's receivings with their items attached. The
// receiving screens filter, sort and paginate this snapshot in memory.
func (r *receivingRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.StockReceiving, error) {
	query := `
		SELECT ` + receivingColumns + `
		FROM stock_receivings r
		JOIN vendors v ON v.tenant_id = r.tenant_id AND v.id = r.vendor_id
		WHERE r.tenant_id = $1
		ORDER BY r.received_date DESC, r.id ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receivings []*models.StockReceiving
	var ids []uuid.UUID
	for rows.Next() {
		receiving := &models.StockReceiving{}
		if err := rows.Scan(&receiving.ID, &receiving.TenantID, &receiving.VendorID, &receiving.VendorName, &receiving.ReferenceNo, &receiving.ReceivedDate, &receiving.TotalAmount, &receiving.PaidAmount, &receiving.PaymentStatus, &receiving.Notes, &receiving.CreatedAt, &receiving.UpdatedAt); err != nil {
			return nil, err
		}
		receivings = append(receivings, receiving)
		ids = append(ids, receiving.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return receivings, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, receiving := range receivings {
		receiving.Items = items[receiving.ID]
	}
	return receivings, nil
}

// UpdateHeader edits the receiving's reference, date and notes. Line items
// and amounts are immutable after creation; corrections go through stock
// adjustments instead.
func (r *receivingRepo) UpdateHeader(ctx context.Context, receiving *models.StockReceiving) error {
	query := `
		UPDATE stock_receivings
		SET reference_no = $1, received_date = $2, notes = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`
	_, err := r.db.Exec(ctx, query, receiving.ReferenceNo, receiving.ReceivedDate, receiving.Notes, receiving.TenantID, receiving.ID)
	return err
}

// Delete removes a receiving and reverses its effects: stock is decremented
// back with correction movements and the vendor's outstanding balance drops
// by the still-unpaid remainder. All in one transaction.
func (r *receivingRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var referenceNo string
	var totalAmount, paidAmount float64
	var vendorID uuid.UUID
	headQuery := `
		SELECT reference_no, total_amount, paid_amount, vendor_id
		FROM stock_receivings
		WHERE tenant_id = $1 AND id = $2
	`
	err = tx.QueryRow(ctx, headQuery, tenantID, id).Scan(&referenceNo, &totalAmount, &paidAmount, &vendorID)
	if err != nil {
		return err
	}

	itemsQuery := `
		SELECT product_id, quantity
		FROM receiving_items
		WHERE receiving_id = $1
	`
	rows, err := tx.Query(ctx, itemsQuery, id)
	if err != nil {
		return err
	}
	type line struct {
		productID uuid.UUID
		quantity  float64
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		if err := bumpStock(ctx, tx, tenantID, l.productID, -l.quantity, models.MovementCorrection, referenceNo); err != nil {
			return err
		}
	}

	outstanding := totalAmount - paidAmount
	if outstanding > 0 {
		balanceQuery := `
			UPDATE vendors
			SET outstanding_balance = GREATEST(outstanding_balance - $1, 0), updated_at = NOW()
			WHERE tenant_id = $2 AND id = $3
		`
		if _, err := tx.Exec(ctx, balanceQuery, outstanding, tenantID, vendorID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM receiving_items WHERE receiving_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM stock_receivings WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ApplyPayment records a vendor payment against a receiving: inserts the
// payment, bumps paid_amount and payment_status, and reduces the vendor's
// outstanding balance. Overpaying the remainder is rejected.
func (r *receivingRepo) ApplyPayment(ctx context.Context, payment *models.Payment) (*models.StockReceiving, error) {
	if payment.ReceivingID == nil {
		return nil, fmt.Errorf("payment must reference a receiving")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	receiving := &models.StockReceiving{}
	lockQuery := `
		SELECT id, tenant_id, vendor_id, reference_no, received_date, total_amount, paid_amount, payment_status, notes, created_at, updated_at
		FROM stock_receivings
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`
	err = tx.QueryRow(ctx, lockQuery, payment.TenantID, *payment.ReceivingID).Scan(&receiving.ID, &receiving.TenantID, &receiving.VendorID, &receiving.ReferenceNo, &receiving.ReceivedDate, &receiving.TotalAmount, &receiving.PaidAmount, &receiving.PaymentStatus, &receiving.Notes, &receiving.CreatedAt, &receiving.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if payment.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	if payment.Amount > receiving.Outstanding() {
		return nil, fmt.Errorf("payment %.2f exceeds outstanding %.2f", payment.Amount, receiving.Outstanding())
	}

	insertQuery := `
		INSERT INTO payments (id, tenant_id, receiving_id, vendor_id, amount, method, paid_date, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err = tx.Exec(ctx, insertQuery, payment.ID, payment.TenantID, payment.ReceivingID, receiving.VendorID, payment.Amount, payment.Method, payment.PaidDate, payment.Reference, payment.Notes)
	if err != nil {
		return nil, err
	}

	receiving.PaidAmount += payment.Amount
	receiving.PaymentStatus = receiving.DerivePaymentStatus()
	updateQuery := `
		UPDATE stock_receivings
		SET paid_amount = $1, payment_status = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	_, err = tx.Exec(ctx, updateQuery, receiving.PaidAmount, receiving.PaymentStatus, receiving.TenantID, receiving.ID)
	if err != nil {
		return nil, err
	}

	balanceQuery := `
		UPDATE vendors
		SET outstanding_balance = GREATEST(outstanding_balance - $1, 0), updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	_, err = tx.Exec(ctx, balanceQuery, payment.Amount, receiving.TenantID, receiving.VendorID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	payment.VendorID = receiving.VendorID
	return receiving, nil
}

func (r *receivingRepo) itemsFor(ctx context.Context, receivingIDs []uuid.UUID) (map[uuid.UUID][]*models.ReceivingItem, error) {
	query := `
		SELECT i.id, i.receiving_id, i.product_id, p.name, i.quantity, i.unit_price, i.line_total
		FROM receiving_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.receiving_id = ANY($1)
		ORDER BY i.id ASC
	`
	rows, err := r.db.Query(ctx, query, receivingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]*models.ReceivingItem)
	for rows.Next() {
		item := &models.ReceivingItem{}
		if err := rows.Scan(&item.ID, &item.ReceivingID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		items[item.ReceivingID] = append(items[item.ReceivingID], item)
	}
	return items, rows.Err()
}

// bumpStock adjusts a product's stock inside an existing transaction and
// records the matching movement row.
func bumpStock(ctx context.Context, tx pgx.Tx, tenantID, productID uuid.UUID, delta float64, kind, reference string) error {
	var balanceAfter float64
	query := `
		UPDATE products
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
		RETURNING current_stock
	`
	if err := tx.QueryRow(ctx, query, delta, tenantID, productID).Scan(&balanceAfter); err != nil {
		return err
	}

	movementQuery := `
		INSERT INTO stock_movements (id, tenant_id, product_id, kind, quantity_change, balance_after, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NOW())
	`
	_, err := tx.Exec(ctx, movementQuery, uuid.New(), tenantID, productID, kind, delta, balanceAfter, reference)
	return err
}
