package repositories

import (
	"context"

	"steelstore/internal/models"

	"github.com/google/uuid"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error)
	WithOutstanding(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error)
}

type vendorRepo struct {
	db DB
}

func NewVendorRepo(db DB) VendorRepository {
	return &vendorRepo{db: db}
}

const vendorColumns = `id, tenant_id, name, phone, address, gstin, outstanding_balance, created_at, updated_at`

func (r *vendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	query := `
		INSERT INTO vendors (id, tenant_id, name, phone, address, gstin, outstanding_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, vendor.ID, vendor.TenantID, vendor.Name, vendor.Phone, vendor.Address, vendor.GSTIN, vendor.OutstandingBalance)
	return err
}

func (r *vendorRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error) {
	vendor := &models.Vendor{}
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&vendor.ID, &vendor.TenantID, &vendor.Name, &vendor.Phone, &vendor.Address, &vendor.GSTIN, &vendor.OutstandingBalance, &vendor.CreatedAt, &vendor.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *vendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $1, phone = $2, address = $3, gstin = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, vendor.Name, vendor.Phone, vendor.Address, vendor.GSTIN, vendor.TenantID, vendor.ID)
	return err
}

func (r *vendorRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM vendors WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *vendorRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE tenant_id = $1
		ORDER BY name ASC, id ASC
	`
	return r.queryVendors(ctx, query, tenantID)
}

func (r *vendorRepo) WithOutstanding(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE tenant_id = $1 AND outstanding_balance > 0
		ORDER BY outstanding_balance DESC
	`
	return r.queryVendors(ctx, query, tenantID)
}

func (r *vendorRepo) queryVendors(ctx context.Context, query string, args ...any) ([]*models.Vendor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		vendor := &models.Vendor{}
		if err := rows.Scan(&vendor.ID, &vendor.TenantID, &vendor.Name, &vendor.Phone, &vendor.Address, &vendor.GSTIN, &vendor.OutstandingBalance, &vendor.CreatedAt, &vendor.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}
