package repositories

import (
	"context"
	"fmt"

	"steelstore/internal/models"

	"github.com/google/uuid"
)

type MovementRepository interface {
	Create(ctx context.Context, movement *models.StockMovement) error
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.MovementSearchFilter) ([]*models.StockMovement, error)
	ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]*models.StockMovement, error)
}

type movementRepo struct {
	db DB
}

func NewMovementRepo(db DB) MovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) Create(ctx context.Context, movement *models.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, product_id, kind, quantity_change, balance_after, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, movement.ID, movement.TenantID, movement.ProductID, movement.Kind, movement.QuantityChange, movement.BalanceAfter, movement.Reference, movement.Note)
	return err
}

// Search builds the movement history query from whichever criteria are set.
func (r *movementRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.MovementSearchFilter) ([]*models.StockMovement, error) {
	if filter.Limit == 0 {
		filter.Limit = 100
	}

	queryBase := `
		SELECT m.id, m.tenant_id, m.product_id, p.name, m.kind, m.quantity_change, m.balance_after, m.reference, m.note, m.created_at
		FROM stock_movements m
		JOIN products p ON p.tenant_id = m.tenant_id AND p.id = m.product_id
		WHERE m.tenant_id = $1
	`
	args := []any{tenantID}
	conditionCount := 1

	if filter.ProductID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.product_id = $%d`, conditionCount)
		args = append(args, *filter.ProductID)
	}
	if filter.Kind != nil && *filter.Kind != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.kind = $%d`, conditionCount)
		args = append(args, *filter.Kind)
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.created_at >= $%d::date`, conditionCount)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.created_at < $%d::date + INTERVAL '1 day'`, conditionCount)
		args = append(args, *filter.DateTo)
	}

	queryBase += ` ORDER BY m.created_at DESC, m.id ASC`

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	return r.queryMovements(ctx, queryBase, args...)
}

func (r *movementRepo) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]*models.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT m.id, m.tenant_id, m.product_id, p.name, m.kind, m.quantity_change, m.balance_after, m.reference, m.note, m.created_at
		FROM stock_movements m
		JOIN products p ON p.tenant_id = m.tenant_id AND p.id = m.product_id
		WHERE m.tenant_id = $1 AND m.product_id = $2
		ORDER BY m.created_at DESC
		LIMIT $3
	`
	return r.queryMovements(ctx, query, tenantID, productID, limit)
}

func (r *movementRepo) queryMovements(ctx context.Context, query string, args ...any) ([]*models.StockMovement, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		movement := &models.StockMovement{}
		if err := rows.Scan(&movement.ID, &movement.TenantID, &movement.ProductID, &movement.ProductName, &movement.Kind, &movement.QuantityChange, &movement.BalanceAfter, &movement.Reference, &movement.Note, &movement.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, rows.Err()
}
