package repositories

import (
	"context"
	"testing"
	"time"

	"steelstore/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type VendorRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     VendorRepository
	tenantID uuid.UUID
	vendorID uuid.UUID
	context  context.Context
}

func (suite *VendorRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewVendorRepo(mock)
	suite.tenantID = uuid.New()
	suite.vendorID = uuid.New()
	suite.context = context.Background()
}

func (suite *VendorRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestVendorRepoTestSuite(t *testing.T) {
	suite.Run(t, new(VendorRepoTestSuite))
}

func stringPtr(s string) *string { return &s }

func (suite *VendorRepoTestSuite) TestCreate_Success() {
	vendor := &models.Vendor{
		ID:       suite.vendorID,
		TenantID: suite.tenantID,
		Name:     "Shree Steels",
		Phone:    stringPtr("9876543210"),
		GSTIN:    stringPtr("27AAPFU0939F1ZV"),
	}

	suite.mock.ExpectExec(`INSERT INTO vendors`).
		WithArgs(vendor.ID, vendor.TenantID, vendor.Name, vendor.Phone, vendor.Address, vendor.GSTIN, vendor.OutstandingBalance).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, vendor)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *VendorRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "name", "phone", "address", "gstin", "outstanding_balance", "created_at", "updated_at"}).
		AddRow(suite.vendorID, suite.tenantID, "Shree Steels", stringPtr("9876543210"), (*string)(nil), (*string)(nil), 1500.0, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM vendors`).
		WithArgs(suite.tenantID, suite.vendorID).
		WillReturnRows(rows)

	vendor, err := suite.repo.GetByID(suite.context, suite.tenantID, suite.vendorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Shree Steels", vendor.Name)
	assert.Equal(suite.T(), 1500.0, vendor.OutstandingBalance)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *VendorRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM vendors`).
		WithArgs(suite.tenantID, suite.vendorID).
		WillReturnError(pgx.ErrNoRows)

	vendor, err := suite.repo.GetByID(suite.context, suite.tenantID, suite.vendorID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), vendor)
}

func (suite *VendorRepoTestSuite) TestList_ScopedToTenant() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "name", "phone", "address", "gstin", "outstanding_balance", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.tenantID, "Agarwal Traders", (*string)(nil), (*string)(nil), (*string)(nil), 0.0, now, now).
		AddRow(uuid.New(), suite.tenantID, "Shree Steels", (*string)(nil), (*string)(nil), (*string)(nil), 250.0, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM vendors`).
		WithArgs(suite.tenantID).
		WillReturnRows(rows)

	vendors, err := suite.repo.List(suite.context, suite.tenantID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), vendors, 2)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *VendorRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM vendors`).
		WithArgs(suite.tenantID, suite.vendorID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.tenantID, suite.vendorID)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
