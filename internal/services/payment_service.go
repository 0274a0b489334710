package services

import (
	"context"
	"errors"
	"time"

	"steelstore/internal/common"
	"steelstore/internal/events"
	"steelstore/internal/models"
	"steelstore/internal/repositories"

	"github.com/google/uuid"
)

type PaymentService interface {
	RecordPayment(ctx context.Context, tenantID uuid.UUID, payment *models.Payment) (*models.StockReceiving, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error)
	ListByReceiving(ctx context.Context, tenantID, receivingID uuid.UUID) ([]*models.Payment, error)
	ListByVendor(ctx context.Context, tenantID, vendorID uuid.UUID) ([]*models.Payment, error)
}

type paymentService struct {
	paymentRepo   repositories.PaymentRepository
	receivingRepo repositories.ReceivingRepository
	bus           *events.Bus
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, receivingRepo repositories.ReceivingRepository, bus *events.Bus) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		receivingRepo: receivingRepo,
		bus:           bus,
	}
}

// RecordPayment validates and applies a vendor payment against a receiving.
// The repository enforces the outstanding ceiling inside the transaction;
// the cheap rejections happen here first.
func (s *paymentService) RecordPayment(ctx context.Context, tenantID uuid.UUID, payment *models.Payment) (*models.StockReceiving, error) {
	if payment.ReceivingID == nil || *payment.ReceivingID == uuid.Nil {
		return nil, errors.New("receiving is required")
	}
	if payment.Amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if err := common.ValidatePaymentMethod(payment.Method); err != nil {
		return nil, err
	}
	if payment.PaidDate == "" {
		payment.PaidDate = time.Now().Format("2006-01-02")
	}
	if err := common.ValidateDateFormat(payment.PaidDate, "paid_date"); err != nil {
		return nil, err
	}

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.TenantID = tenantID

	receiving, err := s.receivingRepo.ApplyPayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{Entity: events.EntityPayment, Kind: events.KindCreated, TenantID: tenantID, ID: payment.ID})
	s.bus.Publish(events.Event{Entity: events.EntityReceiving, Kind: events.KindUpdated, TenantID: tenantID, ID: receiving.ID})
	s.bus.Publish(events.Event{Entity: events.EntityVendor, Kind: events.KindUpdated, TenantID: tenantID, ID: receiving.VendorID})
	return receiving, nil
}

func (s *paymentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, tenantID, id)
}

func (s *paymentService) ListByReceiving(ctx context.Context, tenantID, receivingID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByReceiving(ctx, tenantID, receivingID)
}

func (s *paymentService) ListByVendor(ctx context.Context, tenantID, vendorID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByVendor(ctx, tenantID, vendorID)
}
