package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"steelstore/internal/common"
	"steelstore/internal/listview"
	"steelstore/internal/models"
	"steelstore/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockReceivingService struct {
	mock.Mock
}

func (m *MockReceivingService) Create(ctx context.Context, tenantID uuid.UUID, receiving *models.StockReceiving) error {
	args := m.Called(ctx, tenantID, receiving)
	return args.Error(0)
}

func (m *MockReceivingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StockReceiving, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockReceiving), args.Error(1)
}

func (m *MockReceivingService) UpdateHeader(ctx context.Context, tenantID uuid.UUID, receiving *models.StockReceiving) error {
	args := m.Called(ctx, tenantID, receiving)
	return args.Error(0)
}

func (m *MockReceivingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockReceivingService) ListView(ctx context.Context, tenantID uuid.UUID, query services.ReceivingListQuery) (listview.View[*models.StockReceiving], error) {
	args := m.Called(ctx, tenantID, query)
	return args.Get(0).(listview.View[*models.StockReceiving]), args.Error(1)
}

func (m *MockReceivingService) Close() {
	m.Called()
}

type ReceivingHandlersTestSuite struct {
	suite.Suite
	service  *MockReceivingService
	handlers *ReceivingHandlers
	tenantID uuid.UUID
}

func (suite *ReceivingHandlersTestSuite) SetupTest() {
	suite.service = new(MockReceivingService)
	suite.handlers = NewReceivingHandlers(suite.service)
	suite.tenantID = uuid.New()
}

func TestReceivingHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(ReceivingHandlersTestSuite))
}

// newRequestContext builds an echo context with the tenant injected the way
// the JWT middleware does it.
func (suite *ReceivingHandlersTestSuite) newRequestContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), common.TenantIDKey, suite.tenantID)
	ctx = context.WithValue(ctx, common.UserIDKey, uuid.New())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func (suite *ReceivingHandlersTestSuite) TestListReceivings_MapsQueryParams() {
	view := listview.View[*models.StockReceiving]{
		Items:      []*models.StockReceiving{{ID: uuid.New(), VendorName: "Agarwal Traders", TotalAmount: 500}},
		TotalItems: 1,
		TotalPages: 1,
		Page:       1,
		PageSize:   20,
		Stats:      listview.Stats{"outstanding": 500},
	}

	var captured services.ReceivingListQuery
	suite.service.On("ListView", mock.Anything, suite.tenantID, mock.AnythingOfType("services.ReceivingListQuery")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(services.ReceivingListQuery)
		}).
		Return(view, nil)

	c, rec := suite.newRequestContext(http.MethodGet, "/v1/receivings?search=agarwal&payment_status=partial&min_total=0&date_from=2024-03-01&outstanding=true&sort_by=total&sort_order=asc&page=2")

	err := suite.handlers.ListReceivings(c)
	suite.NoError(err)
	suite.Equal(http.StatusOK, rec.Code)

	suite.Equal("agarwal", captured.Search)
	suite.Equal("partial", captured.PaymentStatus)
	suite.Require().NotNil(captured.MinTotal, "min_total=0 is an explicit bound, not an absent one")
	suite.Equal(0.0, *captured.MinTotal)
	suite.Nil(captured.MaxTotal)
	suite.Equal("2024-03-01", captured.DateFrom)
	suite.True(captured.OutstandingOnly)
	suite.Equal("total", captured.SortBy)
	suite.Equal("asc", captured.SortOrder)
	suite.Equal(2, captured.Page)

	var body map[string]interface{}
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal(float64(1), body["total_items"])
	suite.NotNil(body["stats"])
}

func (suite *ReceivingHandlersTestSuite) TestListReceivings_RejectsBadDate() {
	c, _ := suite.newRequestContext(http.MethodGet, "/v1/receivings?date_from=01-03-2024")

	err := suite.handlers.ListReceivings(c)
	suite.Error(err)
	httpErr, ok := err.(*echo.HTTPError)
	suite.Require().True(ok)
	suite.Equal(http.StatusBadRequest, httpErr.Code)
	suite.service.AssertNotCalled(suite.T(), "ListView")
}

func (suite *ReceivingHandlersTestSuite) TestListReceivings_RejectsBadVendorID() {
	c, _ := suite.newRequestContext(http.MethodGet, "/v1/receivings?vendor_id=not-a-uuid")

	err := suite.handlers.ListReceivings(c)
	suite.Error(err)
	suite.service.AssertNotCalled(suite.T(), "ListView")
}

func (suite *ReceivingHandlersTestSuite) TestListReceivings_MissingTenant() {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/receivings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := suite.handlers.ListReceivings(c)
	suite.Error(err)
	httpErr, ok := err.(*echo.HTTPError)
	suite.Require().True(ok)
	suite.Equal(http.StatusUnauthorized, httpErr.Code)
}

func (suite *ReceivingHandlersTestSuite) TestDeleteReceiving() {
	receivingID := uuid.New()
	suite.service.On("Delete", mock.Anything, suite.tenantID, receivingID).Return(nil)

	c, rec := suite.newRequestContext(http.MethodDelete, "/v1/receivings/"+receivingID.String())
	c.SetParamNames("id")
	c.SetParamValues(receivingID.String())

	err := suite.handlers.DeleteReceiving(c)
	suite.NoError(err)
	suite.Equal(http.StatusOK, rec.Code)
	suite.service.AssertExpectations(suite.T())
}

func TestFloatQueryParam(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?min_total=0&max_total=150.5", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	min, err := floatQueryParam(c, "min_total")
	require.NoError(t, err)
	require.NotNil(t, min)
	require.Equal(t, 0.0, *min)

	max, err := floatQueryParam(c, "max_total")
	require.NoError(t, err)
	require.NotNil(t, max)
	require.Equal(t, 150.5, *max)

	absent, err := floatQueryParam(c, "min_price")
	require.NoError(t, err)
	require.Nil(t, absent)

	req = httptest.NewRequest(http.MethodGet, "/?min_total=abc", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	_, err = floatQueryParam(c, "min_total")
	require.Error(t, err)
}
