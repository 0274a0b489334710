package analytics

import (
	"context"
	"testing"
	"time"

	"steelstore/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) AdvancedSearch(ctx context.Context, tenantID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) CategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CategoryCount), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, delta float64, kind, reference string, note *string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, productID, delta, kind, reference, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockVendorRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) WithOutstanding(ctx context.Context, tenantID uuid.UUID) ([]*models.Vendor, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vendor), args.Error(1)
}

type MockReceivingRepository struct {
	mock.Mock
}

func (m *MockReceivingRepository) CreateWithItems(ctx context.Context, receiving *models.StockReceiving) error {
	return m.Called(ctx, receiving).Error(0)
}

func (m *MockReceivingRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StockReceiving, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockReceiving), args.Error(1)
}

func (m *MockReceivingRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.StockReceiving, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockReceiving), args.Error(1)
}

func (m *MockReceivingRepository) UpdateHeader(ctx context.Context, receiving *models.StockReceiving) error {
	return m.Called(ctx, receiving).Error(0)
}

func (m *MockReceivingRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockReceivingRepository) ApplyPayment(ctx context.Context, payment *models.Payment) (*models.StockReceiving, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockReceiving), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDashboardStats(ctx context.Context, tenantID uuid.UUID) (map[string]float64, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockCacheService) SetDashboardStats(ctx context.Context, tenantID uuid.UUID, stats map[string]float64, ttl time.Duration) error {
	return m.Called(ctx, tenantID, stats, ttl).Error(0)
}

func (m *MockCacheService) DeleteDashboardStats(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockCacheService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, ttl time.Duration) error {
	return m.Called(ctx, tenantID, product, ttl).Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockCacheService) GetCategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CategoryCount), args.Error(1)
}

func (m *MockCacheService) SetCategoryCounts(ctx context.Context, tenantID uuid.UUID, counts []*models.CategoryCount, ttl time.Duration) error {
	return m.Called(ctx, tenantID, counts, ttl).Error(0)
}

func (m *MockCacheService) DeleteCategoryCounts(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

type AnalyticsServiceTestSuite struct {
	suite.Suite
	productRepo   *MockProductRepository
	vendorRepo    *MockVendorRepository
	receivingRepo *MockReceivingRepository
	cache         *MockCacheService
	service       *Service
	tenantID      uuid.UUID
	ctx           context.Context
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.productRepo = new(MockProductRepository)
	suite.vendorRepo = new(MockVendorRepository)
	suite.receivingRepo = new(MockReceivingRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewService(suite.productRepo, suite.vendorRepo, suite.receivingRepo, suite.cache)
	suite.tenantID = uuid.New()
	suite.ctx = context.Background()
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (suite *AnalyticsServiceTestSuite) TestDashboardStats_CacheHit() {
	cached := map[string]float64{"product_count": 12}
	suite.cache.On("GetDashboardStats", suite.ctx, suite.tenantID).Return(cached, nil)

	stats, err := suite.service.DashboardStats(suite.ctx, suite.tenantID)
	suite.NoError(err)
	suite.Equal(12.0, stats["product_count"])
	suite.productRepo.AssertNotCalled(suite.T(), "List")
}

func (suite *AnalyticsServiceTestSuite) TestDashboardStats_ComputesOnMiss() {
	thisMonth := time.Now().Format("2006-01") + "-15"
	products := []*models.Product{
		{ID: uuid.New(), CurrentStock: 100, UnitPrice: 60, MinStockLevel: 50},
		{ID: uuid.New(), CurrentStock: 10, UnitPrice: 80, MinStockLevel: 25},
	}
	vendors := []*models.Vendor{
		{ID: uuid.New(), OutstandingBalance: 1500},
		{ID: uuid.New(), OutstandingBalance: 0},
	}
	receivings := []*models.StockReceiving{
		{ID: uuid.New(), ReceivedDate: thisMonth, TotalAmount: 1000, PaidAmount: 400},
		{ID: uuid.New(), ReceivedDate: "2023-01-10", TotalAmount: 500, PaidAmount: 500},
	}

	suite.cache.On("GetDashboardStats", suite.ctx, suite.tenantID).Return(nil, nil)
	suite.productRepo.On("List", suite.ctx, suite.tenantID).Return(products, nil)
	suite.vendorRepo.On("List", suite.ctx, suite.tenantID).Return(vendors, nil)
	suite.receivingRepo.On("List", suite.ctx, suite.tenantID).Return(receivings, nil)
	suite.cache.On("SetDashboardStats", suite.ctx, suite.tenantID, mock.Anything, dashboardCacheTTL).Return(nil)

	stats, err := suite.service.DashboardStats(suite.ctx, suite.tenantID)
	suite.NoError(err)
	suite.Equal(2.0, stats["product_count"])
	suite.Equal(100*60.0+10*80.0, stats["stock_value"])
	suite.Equal(1.0, stats["low_stock_count"])
	suite.Equal(1500.0, stats["outstanding_payable"])
	suite.Equal(1000.0, stats["receivings_mtd_total"])
	suite.Equal(1.0, stats["receivings_mtd_count"])
	suite.Equal(1.0, stats["unpaid_receivings"])
	suite.cache.AssertExpectations(suite.T())
}

func (suite *AnalyticsServiceTestSuite) TestRefreshDashboardStats_BypassesCacheRead() {
	suite.productRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Product{}, nil)
	suite.vendorRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.Vendor{}, nil)
	suite.receivingRepo.On("List", suite.ctx, suite.tenantID).Return([]*models.StockReceiving{}, nil)
	suite.cache.On("SetDashboardStats", suite.ctx, suite.tenantID, mock.Anything, dashboardCacheTTL).Return(nil)

	err := suite.service.RefreshDashboardStats(suite.ctx, suite.tenantID)
	suite.NoError(err)
	suite.cache.AssertNotCalled(suite.T(), "GetDashboardStats")
}
