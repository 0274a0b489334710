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

const (
	productCacheTTL  = 10 * time.Minute
	categoryCacheTTL = 30 * time.Minute
)

// ProductListQuery carries the catalog screen's filter, sort and pagination
// inputs for the in-memory list view.
type ProductListQuery struct {
	Search       string
	Category     string
	MinStock     *float64
	MaxStock     *float64
	MinPrice     *float64
	MaxPrice     *float64
	LowStockOnly bool
	SortBy       string
	SortOrder    string
	Page         int
	PageSize     int
}

type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error)
	Update(ctx context.Context, tenantID uuid.UUID, product *models.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	ListView(ctx context.Context, tenantID uuid.UUID, query ProductListQuery) (listview.View[*models.Product], error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
	CategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error)
	AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, delta float64, reference string, note *string) (*models.Product, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	Close()
}

// productSession pairs the tenant's list session with a request mutex so
// concurrent list calls cannot interleave each other's filter and page
// state mid-sequence.
type productSession struct {
	*listview.Session[*models.Product]
	reqMu sync.Mutex
}

type productService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
	bus          *events.Bus

	mu       sync.Mutex
	sessions map[uuid.UUID]*productSession
	unsub    func()
}

func NewProductService(productRepo repositories.ProductRepository, cacheService caching.CacheService, bus *events.Bus) ProductService {
	s := &productService{
		productRepo:  productRepo,
		cacheService: cacheService,
		bus:          bus,
		sessions:     make(map[uuid.UUID]*productSession),
	}
	s.unsub = bus.Subscribe(events.EntityProduct, func(ev events.Event) {
		s.mu.Lock()
		session, ok := s.sessions[ev.TenantID]
		s.mu.Unlock()
		if ok {
			session.ScheduleRefresh(context.Background())
		}
	})
	return s
}

// productSchema defines how catalog rows are searched, filtered and sorted
// on the list screen.
func productSchema() listview.Schema[*models.Product] {
	return listview.Schema[*models.Product]{
		ID: func(p *models.Product) string { return p.ID.String() },
		SearchFields: []func(*models.Product) string{
			func(p *models.Product) string { return p.Name },
			func(p *models.Product) string { return p.Category },
			func(p *models.Product) string {
				if p.Barcode == nil {
					return ""
				}
				return *p.Barcode
			},
			func(p *models.Product) string {
				if p.Description == nil {
					return ""
				}
				return *p.Description
			},
		},
		ExactFields: map[string]func(*models.Product) string{
			"category": func(p *models.Product) string { return p.Category },
		},
		NumberFields: map[string]func(*models.Product) float64{
			"stock": func(p *models.Product) float64 { return p.CurrentStock },
			"price": func(p *models.Product) float64 { return p.UnitPrice },
		},
		FlagFields: map[string]func(*models.Product) bool{
			"low_stock": func(p *models.Product) bool { return p.CurrentStock <= p.MinStockLevel },
		},
		SortFields: map[string]func(a, b *models.Product) int{
			"name": func(a, b *models.Product) int {
				return listview.CompareStrings(strings.ToLower(a.Name), strings.ToLower(b.Name))
			},
			"stock": func(a, b *models.Product) int {
				return listview.CompareFloats(a.CurrentStock, b.CurrentStock)
			},
			"price": func(a, b *models.Product) int {
				return listview.CompareFloats(a.UnitPrice, b.UnitPrice)
			},
			"updated_at": func(a, b *models.Product) int {
				return a.UpdatedAt.Compare(b.UpdatedAt)
			},
		},
		DefaultSort: listview.SortSpec{Key: "updated_at", Direction: listview.Descending},
	}
}

func productStats(records []*models.Product) listview.Stats {
	var stockValue float64
	var lowStock int
	for _, p := range records {
		stockValue += p.CurrentStock * p.UnitPrice
		if p.CurrentStock <= p.MinStockLevel {
			lowStock++
		}
	}
	return listview.Stats{
		"count":           float64(len(records)),
		"stock_value":     stockValue,
		"low_stock_count": float64(lowStock),
	}
}

func (s *productService) sessionFor(tenantID uuid.UUID) *productSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[tenantID]; ok {
		return session
	}

	store := listview.NewStore(
		func(p *models.Product) string { return p.ID.String() },
		func(ctx context.Context) ([]*models.Product, error) {
			return s.productRepo.List(ctx, tenantID)
		},
		snapshotLoadTimeout,
	)
	session := &productSession{
		Session: listview.NewSession(productSchema(), store, productStats, 20, 0),
	}
	s.sessions[tenantID] = session
	return session
}

// ListView serves the catalog list screen from the tenant's in-memory
// snapshot.
func (s *productService) ListView(ctx context.Context, tenantID uuid.UUID, query ProductListQuery) (listview.View[*models.Product], error) {
	session := s.sessionFor(tenantID)
	session.reqMu.Lock()
	defer session.reqMu.Unlock()

	if !session.Loaded() {
		if err := session.Load(ctx); err != nil {
			return session.View(), err
		}
	}

	if query.PageSize > 0 {
		session.SetPageSize(query.PageSize)
	}
	session.SetSearch(query.Search)
	session.SetExact("category", query.Category)
	session.SetNumberRange("stock", query.MinStock, query.MaxStock)
	session.SetNumberRange("price", query.MinPrice, query.MaxPrice)
	session.SetFlag("low_stock", query.LowStockOnly)
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

func (s *productService) Close() {
	if s.unsub != nil {
		s.unsub()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		session.Close()
	}
	s.sessions = map[uuid.UUID]*productSession{}
}

func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, product *models.Product) error {
	if product.Name == "" {
		return errors.New("product name is required")
	}
	if product.UnitPrice < 0 {
		return errors.New("unit price cannot be negative")
	}
	if product.CurrentStock < 0 {
		return errors.New("stock cannot be negative")
	}
	if product.Category == "" {
		product.Category = "Uncategorized"
	}

	if product.Barcode != nil && *product.Barcode != "" {
		existing, err := s.productRepo.GetByBarcode(ctx, tenantID, *product.Barcode)
		if err == nil && existing != nil {
			return errors.New("a product with this barcode already exists")
		}
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.TenantID = tenantID

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID, product.ID)
	s.bus.Publish(events.Event{Entity: events.EntityProduct, Kind: events.KindCreated, TenantID: tenantID, ID: product.ID})
	return nil
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, tenantID, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	_ = s.cacheService.SetProduct(ctx, tenantID, product, productCacheTTL)
	return product, nil
}

func (s *productService) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	if barcode == "" {
		return nil, errors.New("barcode is required")
	}
	return s.productRepo.GetByBarcode(ctx, tenantID, barcode)
}

func (s *productService) Update(ctx context.Context, tenantID uuid.UUID, product *models.Product) error {
	if product.ID == uuid.Nil {
		return errors.New("product id is required")
	}
	if product.Name == "" {
		return errors.New("product name is required")
	}
	if product.UnitPrice < 0 {
		return errors.New("unit price cannot be negative")
	}
	product.TenantID = tenantID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID, product.ID)
	s.bus.Publish(events.Event{Entity: events.EntityProduct, Kind: events.KindUpdated, TenantID: tenantID, ID: product.ID})
	return nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID, id)
	s.bus.Publish(events.Event{Entity: events.EntityProduct, Kind: events.KindDeleted, TenantID: tenantID, ID: id})
	return nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.List(ctx, tenantID)
}

func (s *productService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductSearchFilter{}
	}
	return s.productRepo.AdvancedSearch(ctx, tenantID, filter)
}

func (s *productService) CategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error) {
	if cached, err := s.cacheService.GetCategoryCounts(ctx, tenantID); err == nil && cached != nil {
		return cached, nil
	}

	counts, err := s.productRepo.CategoryCounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	_ = s.cacheService.SetCategoryCounts(ctx, tenantID, counts, categoryCacheTTL)
	return counts, nil
}

// AdjustStock applies a signed manual correction and records the movement.
// The product and movement land atomically at the repository.
func (s *productService) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, delta float64, reference string, note *string) (*models.Product, error) {
	if delta == 0 {
		return nil, errors.New("adjustment must be non-zero")
	}
	if reference == "" {
		reference = "manual adjustment"
	}

	product, err := s.productRepo.AdjustStock(ctx, tenantID, productID, delta, models.MovementAdjustment, reference, note)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID, productID)
	s.bus.Publish(events.Event{Entity: events.EntityProduct, Kind: events.KindUpdated, TenantID: tenantID, ID: productID})
	s.bus.Publish(events.Event{Entity: events.EntityMovement, Kind: events.KindCreated, TenantID: tenantID, ID: productID})
	return product, nil
}

func (s *productService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.LowStock(ctx, tenantID)
}

func (s *productService) invalidate(ctx context.Context, tenantID, productID uuid.UUID) {
	_ = s.cacheService.DeleteProduct(ctx, tenantID, productID)
	_ = s.cacheService.DeleteCategoryCounts(ctx, tenantID)
	_ = s.cacheService.DeleteDashboardStats(ctx, tenantID)
}
