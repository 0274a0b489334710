package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"steelstore/internal/caching"
	"steelstore/internal/events"
	"steelstore/internal/listview"
	"steelstore/internal/models"
	"steelstore/internal/repositories"

	"github.com/google/uuid"
)

const snapshotLoadTimeout = 10 * time.Second

// ReceivingListQuery carries the list screen's filter, sort and pagination
// inputs. Zero values leave the corresponding session state untouched except
// Search, which is always applied (clearing the box is itself an input).
type ReceivingListQuery struct {
	Search          string
	PaymentStatus   string
	VendorID        string
	MinTotal        *float64
	MaxTotal        *float64
	DateFrom        string
	DateTo          string
	OutstandingOnly bool
	SortBy          string
	SortOrder       string
	Page            int
	PageSize        int
}

type ReceivingService interface {
	Create(ctx context.Context, tenantID uuid.UUID, receiving *models.StockReceiving) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StockReceiving, error)
	UpdateHeader(ctx context.Context, tenantID uuid.UUID, receiving *models.StockReceiving) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListView(ctx context.Context, tenantID uuid.UUID, query ReceivingListQuery) (listview.View[*models.StockReceiving], error)
	Close()
}

// receivingSession pairs the tenant's list session with a request mutex so
// concurrent list calls cannot interleave each other's filter and page
// state mid-sequence.
type receivingSession struct {
	*listview.Session[*models.StockReceiving]
	reqMu sync.Mutex
}

type receivingService struct {
	receivingRepo repositories.ReceivingRepository
	cacheService  caching.CacheService
	bus           *events.Bus

	mu       sync.Mutex
	sessions map[uuid.UUID]*receivingSession
	unsub    func()
}

func NewReceivingService(receivingRepo repositories.ReceivingRepository, cacheService caching.CacheService, bus *events.Bus) ReceivingService {
	s := &receivingService{
		receivingRepo: receivingRepo,
		cacheService:  cacheService,
		bus:           bus,
		sessions:      make(map[uuid.UUID]*receivingSession),
	}
	// Mutations from elsewhere (payments against a receiving) schedule a
	// coalesced snapshot refresh instead of one reload per event.
	s.unsub = bus.Subscribe(events.EntityReceiving, func(ev events.Event) {
		s.mu.Lock()
		session, ok := s.sessions[ev.TenantID]
		s.mu.Unlock()
		if ok {
			session.ScheduleRefresh(context.Background())
		}
	})
	return s
}

// receivingSchema defines how receiving rows are searched, filtered and
// sorted on the list screen.
func receivingSchema() listview.Schema[*models.StockReceiving] {
	return listview.Schema[*models.StockReceiving]{
		ID: func(r *models.StockReceiving) string { return r.ID.String() },
		SearchFields: []func(*models.StockReceiving) string{
			func(r *models.StockReceiving) string { return r.VendorName },
			func(r *models.StockReceiving) string { return r.ReferenceNo },
			func(r *models.StockReceiving) string {
				if r.Notes == nil {
					return ""
				}
				return *r.Notes
			},
			func(r *models.StockReceiving) string {
				names := make([]string, 0, len(r.Items))
				for _, item := range r.Items {
					names = append(names, item.ProductName)
				}
				return strings.Join(names, " ")
			},
		},
		ExactFields: map[string]func(*models.StockReceiving) string{
			"payment_status": func(r *models.StockReceiving) string { return r.PaymentStatus },
			"vendor_id":      func(r *models.StockReceiving) string { return r.VendorID.String() },
		},
		NumberFields: map[string]func(*models.StockReceiving) float64{
			"total":       func(r *models.StockReceiving) float64 { return r.TotalAmount },
			"outstanding": func(r *models.StockReceiving) float64 { return r.Outstanding() },
		},
		DateFields: map[string]func(*models.StockReceiving) string{
			"received": func(r *models.StockReceiving) string { return r.ReceivedDate },
		},
		FlagFields: map[string]func(*models.StockReceiving) bool{
			"outstanding_only": func(r *models.StockReceiving) bool { return r.Outstanding() > 0 },
		},
		SortFields: map[string]func(a, b *models.StockReceiving) int{
			"received_date": func(a, b *models.StockReceiving) int {
				return listview.CompareStrings(a.ReceivedDate, b.ReceivedDate)
			},
			"vendor": func(a, b *models.StockReceiving) int {
				return listview.CompareStrings(a.VendorName, b.VendorName)
			},
			"total": func(a, b *models.StockReceiving) int {
				return listview.CompareFloats(a.TotalAmount, b.TotalAmount)
			},
			"outstanding": func(a, b *models.StockReceiving) int {
				return listview.CompareFloats(a.Outstanding(), b.Outstanding())
			},
		},
		DefaultSort: listview.SortSpec{Key: "received_date", Direction: listview.Descending},
	}
}

func receivingStats(records []*models.StockReceiving) listview.Stats {
	var total, paid, outstanding float64
	for _, r := range records {
		total += r.TotalAmount
		paid += r.PaidAmount
		outstanding += r.Outstanding()
	}
	return listview.Stats{
		"count":        float64(len(records)),
		"total_amount": total,
		"paid_amount":  paid,
		"outstanding":  outstanding,
	}
}

func (s *receivingService) sessionFor(tenantID uuid.UUID) *receivingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[tenantID]; ok {
		return session
	}

	store := listview.NewStore(
		func(r *models.StockReceiving) string { return r.ID.String() },
		func(ctx context.Context) ([]*models.StockReceiving, error) {
			return s.receivingRepo.List(ctx, tenantID)
		},
		snapshotLoadTimeout,
	)
	session := &receivingSession{
		Session: listview.NewSession(receivingSchema(), store, receivingStats, 20, 0),
	}
	s.sessions[tenantID] = session
	return session
}

func (s *receivingService) Create(ctx context.Context, tenantID uuid.UUID, receiving *models.StockReceiving) error {
	if receiving.VendorID == uuid.Nil {
		return errors.New("vendor is required")
	}
	if receiving.ReceivedDate == "" {
		return errors.New("received date is required")
	}
	if len(receiving.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, item := range receiving.Items {
		if item.ProductID == uuid.Nil {
			return errors.New("each item needs a product")
		}
		if item.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return errors.New("item price cannot be negative")
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
	}
	if receiving.PaidAmount < 0 {
		return errors.New("paid amount cannot be negative")
	}
	// The payment path enforces the outstanding ceiling; entry of an
	// already-part-paid receiving must agree with it.
	var total float64
	for _, item := range receiving.Items {
		total += item.Quantity * item.UnitPrice
	}
	if receiving.PaidAmount > total {
		return errors.New("paid amount cannot exceed the total amount")
	}

	if receiving.ID == uuid.Nil {
		receiving.ID = uuid.New()
	}
	receiving.TenantID = tenantID

	if err := s.receivingRepo.CreateWithItems(ctx, receiving); err != nil {
		return err
	}

	s.afterMutation(ctx, tenantID)
	s.bus.Publish(events.Event{Entity: events.EntityReceiving, Kind: events.KindCreated, TenantID: tenantID, ID: receiving.ID})
	return nil
}

func (s *receivingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StockReceiving, error) {
	return s.receivingRepo.GetByID(ctx, tenantID, id)
}

func (s *receivingService) UpdateHeader(ctx context.Context, tenantID uuid.UUID, receiving *models.StockReceiving) error {
	if receiving.ID == uuid.Nil {
		return errors.New("receiving id is required")
	}
	if receiving.ReceivedDate == "" {
		return errors.New("received date is required")
	}
	receiving.TenantID = tenantID

	if err := s.receivingRepo.UpdateHeader(ctx, receiving); err != nil {
		return err
	}

	s.afterMutation(ctx, tenantID)
	s.bus.Publish(events.Event{Entity: events.EntityReceiving, Kind: events.KindUpdated, TenantID: tenantID, ID: receiving.ID})
	return nil
}

func (s *receivingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.receivingRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	// Patch the snapshot right away so the list never shows the deleted
	// row while the coalesced refresh is pending.
	s.mu.Lock()
	session, ok := s.sessions[tenantID]
	s.mu.Unlock()
	if ok {
		session.OnMutation(listview.Delete, &models.StockReceiving{ID: id})
	}

	s.afterMutation(ctx, tenantID)
	s.bus.Publish(events.Event{Entity: events.EntityReceiving, Kind: events.KindDeleted, TenantID: tenantID, ID: id})
	return nil
}

// ListView serves the receiving list screen from the tenant's in-memory
// snapshot: filter, sort, paginate and summarize in one pass.
func (s *receivingService) ListView(ctx context.Context, tenantID uuid.UUID, query ReceivingListQuery) (listview.View[*models.StockReceiving], error) {
	session := s.sessionFor(tenantID)
	session.reqMu.Lock()
	defer session.reqMu.Unlock()

	// Stale data beats a blank screen; fail only with nothing to show.
	if !session.Loaded() {
		if err := session.Load(ctx); err != nil {
			return session.View(), err
		}
	}

	if query.PageSize > 0 {
		session.SetPageSize(query.PageSize)
	}
	session.SetSearch(query.Search)
	session.SetExact("payment_status", query.PaymentStatus)
	session.SetExact("vendor_id", query.VendorID)
	session.SetNumberRange("total", query.MinTotal, query.MaxTotal)
	session.SetDateRange("received", query.DateFrom, query.DateTo)
	session.SetFlag("outstanding_only", query.OutstandingOnly)
	session.CommitNow()

	if query.SortBy != "" {
		dir := listview.Descending
		if strings.EqualFold(query.SortOrder, "asc") {
			dir = listview.Ascending
		}
		session.SetSort(query.SortBy, dir)
	}
	if query.Page > 0 {
		session.SetPage(query.Page)
	}

	return session.View(), nil
}

func (s *receivingService) Close() {
	if s.unsub != nil {
		s.unsub()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		session.Close()
	}
	s.sessions = map[uuid.UUID]*receivingSession{}
}

func (s *receivingService) afterMutation(ctx context.Context, tenantID uuid.UUID) {
	_ = s.cacheService.DeleteDashboardStats(ctx, tenantID)
}
