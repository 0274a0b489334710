package repositories

import (
	"context"
	"fmt"
	"strings"

	"steelstore/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	CategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error)
	AdvancedSearch(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
	AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, delta float64, kind, reference string, note *string) (*models.Product, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, tenant_id, name, category, unit, unit_price, current_stock, min_stock_level, barcode, description, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, name, category, unit, unit_price, current_stock, min_stock_level, barcode, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.TenantID, product.Name, product.Category, product.Unit, product.UnitPrice, product.CurrentStock, product.MinStockLevel, product.Barcode, product.Description)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&product.ID, &product.TenantID, &product.Name, &product.Category, &product.Unit, &product.UnitPrice, &product.CurrentStock, &product.MinStockLevel, &product.Barcode, &product.Description, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND barcode = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, barcode).Scan(&product.ID, &product.TenantID, &product.Name, &product.Category, &product.Unit, &product.UnitPrice, &product.CurrentStock, &product.MinStockLevel, &product.Barcode, &product.Description, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, category = $2, unit = $3, unit_price = $4, min_stock_level = $5, barcode = $6, description = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Category, product.Unit, product.UnitPrice, product.MinStockLevel, product.Barcode, product.Description, product.TenantID, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

// List returns the tenant's full catalog. The catalog screens filter and
// paginate in memory, so this is the snapshot loader's query.
func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1
		ORDER BY updated_at DESC, id ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.TenantID, &product.Name, &product.Category, &product.Unit, &product.UnitPrice, &product.CurrentStock, &product.MinStockLevel, &product.Barcode, &product.Description, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) CategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		WHERE tenant_id = $1
		GROUP BY category
		ORDER BY category ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.CategoryCount
	for rows.Next() {
		c := &models.CategoryCount{}
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *productRepo) AdvancedSearch(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	conditionCount := 1

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (
			name ILIKE $%d OR
			category ILIKE $%d OR
			COALESCE(barcode, '') ILIKE $%d OR
			COALESCE(description, '') ILIKE $%d
		)`, conditionCount, conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}

	if filter.Category != nil && *filter.Category != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, *filter.Category)
	}

	if filter.MinStock != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND current_stock >= $%d`, conditionCount)
		args = append(args, *filter.MinStock)
	}
	if filter.MaxStock != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND current_stock <= $%d`, conditionCount)
		args = append(args, *filter.MaxStock)
	}

	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND unit_price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND unit_price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}

	validSortFields := map[string]bool{
		"name": true, "category": true, "current_stock": true, "unit_price": true, "updated_at": true,
	}
	sortField := "updated_at"
	if validSortFields[filter.SortBy] {
		sortField = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s, id ASC`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.TenantID, &product.Name, &product.Category, &product.Unit, &product.UnitPrice, &product.CurrentStock, &product.MinStockLevel, &product.Barcode, &product.Description, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// AdjustStock applies a signed quantity delta and records the movement in
// one transaction. The movement's balance_after is read from the updated
// row, so concurrent adjustments serialize on the product row lock.
func (r *productRepo) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, delta float64, kind, reference string, note *string) (*models.Product, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	product := &models.Product{}
	query := `
		UPDATE products
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
		RETURNING ` + productColumns + `
	`
	err = tx.QueryRow(ctx, query, delta, tenantID, productID).Scan(&product.ID, &product.TenantID, &product.Name, &product.Category, &product.Unit, &product.UnitPrice, &product.CurrentStock, &product.MinStockLevel, &product.Barcode, &product.Description, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if product.CurrentStock < 0 {
		return nil, fmt.Errorf("stock for product %s would go negative", product.Name)
	}

	movementQuery := `
		INSERT INTO stock_movements (id, tenant_id, product_id, kind, quantity_change, balance_after, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err = tx.Exec(ctx, movementQuery, uuid.New(), tenantID, productID, kind, delta, product.CurrentStock, reference, note)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND current_stock <= min_stock_level
		ORDER BY current_stock ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.TenantID, &product.Name, &product.Category, &product.Unit, &product.UnitPrice, &product.CurrentStock, &product.MinStockLevel, &product.Barcode, &product.Description, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
