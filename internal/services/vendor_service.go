package services

import (
	"context"
	"errors"

	"steelstore/internal/events"
	"steelstore/internal/models"
	"steelstore/internal/repositories"

	"github.com/google/uuid"
)

type VendorService interface {
	Create(ctx context.Context, tenantID uuid.UUID, vendor *models.Vendor) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, tenantID uuid.UUID, vendor *models.Vendor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error)
	WithOutstanding(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error)
}

type vendorService struct {
	vendorRepo repositories.VendorRepository
	bus        *events.Bus
}

func NewVendorService(vendorRepo repositories.VendorRepository, bus *events.Bus) VendorService {
	return &vendorService{vendorRepo: vendorRepo, bus: bus}
}

func (s *vendorService) Create(ctx context.Context, tenantID uuid.UUID, vendor *models.Vendor) error {
	if vendor.Name == "" {
		return errors.New("vendor name is required")
	}
	if vendor.OutstandingBalance < 0 {
		return errors.New("opening balance cannot be negative")
	}

	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	vendor.TenantID = tenantID

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return err
	}

	s.bus.Publish(events.Event{Entity: events.EntityVendor, Kind: events.KindCreated, TenantID: tenantID, ID: vendor.ID})
	return nil
}

func (s *vendorService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error) {
	return s.vendorRepo.GetByID(ctx, tenantID, id)
}

func (s *vendorService) Update(ctx context.Context, tenantID uuid.UUID, vendor *models.Vendor) error {
	if vendor.ID == uuid.Nil {
		return errors.New("vendor id is required")
	}
	if vendor.Name == "" {
		return errors.New("vendor name is required")
	}
	vendor.TenantID = tenantID

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return err
	}

	s.bus.Publish(events.Event{Entity: events.EntityVendor, Kind: events.KindUpdated, TenantID: tenantID, ID: vendor.ID})
	return nil
}

// Delete refuses to remove a vendor who still owes or is owed money.
func (s *vendorService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	vendor, err := s.vendorRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if vendor.OutstandingBalance != 0 {
		return errors.New("vendor has an outstanding balance and cannot be deleted")
	}

	if err := s.vendorRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.bus.Publish(events.Event{Entity: events.EntityVendor, Kind: events.KindDeleted, TenantID: tenantID, ID: id})
	return nil
}

func (s *vendorService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error) {
	return s.vendorRepo.List(ctx, tenantID)
}

func (s *vendorService) WithOutstanding(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error) {
	return s.vendorRepo.WithOutstanding(ctx, tenantID)
}
