package analytics

import (
	"context"
	"time"

	"steelstore/internal/caching"
	"steelstore/internal/repositories"

	"github.com/google/uuid"
)

const dashboardCacheTTL = 5 * time.Minute

// Service computes the dashboard summary for a tenant and caches it. The
// dashboard tolerates slightly stale numbers; mutations delete the cache so
// the next read recomputes.
type Service struct {
	productRepo   repositories.ProductRepository
	vendorRepo    repositories.VendorRepository
	receivingRepo repositories.ReceivingRepository
	cacheService  caching.CacheService
}

func NewService(productRepo repositories.ProductRepository, vendorRepo repositories.VendorRepository, receivingRepo repositories.ReceivingRepository, cacheService caching.CacheService) *Service {
	return &Service{
		productRepo:   productRepo,
		vendorRepo:    vendorRepo,
		receivingRepo: receivingRepo,
		cacheService:  cacheService,
	}
}

// DashboardStats returns the tenant's summary numbers, from cache when warm.
func (s *Service) DashboardStats(ctx context.Context, tenantID uuid.UUID) (map[string]float64, error) {
	if cached, err := s.cacheService.GetDashboardStats(ctx, tenantID); err == nil && cached != nil {
		return cached, nil
	}

	stats, err := s.compute(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	_ = s.cacheService.SetDashboardStats(ctx, tenantID, stats, dashboardCacheTTL)
	return stats, nil
}

// RefreshDashboardStats recomputes and rewrites the cache unconditionally.
// The background scheduler calls this so dashboards stay warm.
func (s *Service) RefreshDashboardStats(ctx context.Context, tenantID uuid.UUID) error {
	stats, err := s.compute(ctx, tenantID)
	if err != nil {
		return err
	}
	return s.cacheService.SetDashboardStats(ctx, tenantID, stats, dashboardCacheTTL)
}

func (s *Service) compute(ctx context.Context, tenantID uuid.UUID) (map[string]float64, error) {
	products, err := s.productRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var stockValue float64
	var lowStock int
	for _, p := range products {
		stockValue += p.CurrentStock * p.UnitPrice
		if p.CurrentStock <= p.MinStockLevel {
			lowStock++
		}
	}

	vendors, err := s.vendorRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var payable float64
	for _, v := range vendors {
		payable += v.OutstandingBalance
	}

	receivings, err := s.receivingRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	monthStart := time.Now().Format("2006-01") + "-01"
	var monthTotal float64
	var monthCount, unpaid int
	for _, r := range receivings {
		if r.ReceivedDate >= monthStart {
			monthTotal += r.TotalAmount
			monthCount++
		}
		if r.Outstanding() > 0 {
			unpaid++
		}
	}

	return map[string]float64{
		"product_count":        float64(len(products)),
		"stock_value":          stockValue,
		"low_stock_count":      float64(lowStock),
		"vendor_count":         float64(len(vendors)),
		"outstanding_payable":  payable,
		"receivings_mtd_total": monthTotal,
		"receivings_mtd_count": float64(monthCount),
		"unpaid_receivings":    float64(unpaid),
	}, nil
}
