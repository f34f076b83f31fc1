package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	"github.com/tirtalabs/tirta/internal/clock"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	readingdomain "github.com/tirtalabs/tirta/internal/reading/domain"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      readingdomain.Service
	tariff   *tariffdomain.Tariff
	customer *customerdomain.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&tariffdomain.Tariff{},
		&customerdomain.Customer{},
		&readingdomain.Reading{},
		&billingdomain.Bill{},
		&ledgerdomain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tariff := &tariffdomain.Tariff{
		ID:          node.Generate(),
		Name:        "Household A",
		RatePerUnit: decimal.NewFromInt(3000),
		BaseFee:     decimal.NewFromInt(15000),
	}
	require.NoError(t, db.Create(tariff).Error)

	customer := &customerdomain.Customer{
		ID:          node.Generate(),
		Name:        "Budi Santoso",
		MeterNumber: "MTR-0001",
		Status:      customerdomain.StatusActive,
		TariffID:    tariff.ID,
	}
	require.NoError(t, db.Create(customer).Error)

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed(testNow),
	})

	return &fixture{db: db, node: node, svc: svc, tariff: tariff, customer: customer}
}

func (f *fixture) record(t *testing.T, month, year int, meter int64) *readingdomain.RecordResponse {
	t.Helper()
	resp, err := f.svc.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID: f.customer.ID.String(),
		Month:      month,
		Year:       year,
		MeterValue: decimal.NewFromInt(meter),
	})
	require.NoError(t, err)
	return resp
}

func TestRecord_FirstReading(t *testing.T) {
	f := newFixture(t)

	resp := f.record(t, 1, 2026, 100)

	// No prior reading: previous defaults to zero, the whole meter value
	// counts as usage.
	assert.True(t, resp.Reading.PreviousValue.IsZero())
	assert.True(t, resp.Reading.UsageAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Bill.Amount.Equal(decimal.NewFromInt(100*3000+15000)))
	assert.Equal(t, billingdomain.StatusUnpaid, resp.Bill.Status)
	assert.Equal(t, testNow, resp.Reading.RecordedAt)
}

func TestRecord_UsesPriorMonthReading(t *testing.T) {
	f := newFixture(t)
	f.record(t, 1, 2026, 100)

	resp := f.record(t, 2, 2026, 112)

	assert.True(t, resp.Reading.PreviousValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Reading.UsageAmount.Equal(decimal.NewFromInt(12)))
	assert.True(t, resp.Bill.Amount.Equal(decimal.NewFromInt(51000)))
	assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), resp.Bill.DueDate)

	// The tariff is snapshotted on the bill.
	assert.True(t, resp.Bill.RatePerUnit.Equal(decimal.NewFromInt(3000)))
	assert.True(t, resp.Bill.BaseFee.Equal(decimal.NewFromInt(15000)))
}

func TestRecord_YearRollover(t *testing.T) {
	f := newFixture(t)
	f.record(t, 12, 2025, 80)

	resp := f.record(t, 1, 2026, 95)

	assert.True(t, resp.Reading.PreviousValue.Equal(decimal.NewFromInt(80)))
	assert.True(t, resp.Reading.UsageAmount.Equal(decimal.NewFromInt(15)))
}

func TestRecord_DecemberDueDateRollsYear(t *testing.T) {
	f := newFixture(t)

	resp := f.record(t, 12, 2026, 10)

	assert.Equal(t, time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC), resp.Bill.DueDate)
}

func TestRecord_PreviousOverride(t *testing.T) {
	f := newFixture(t)
	f.record(t, 1, 2026, 100)

	override := decimal.NewFromInt(105)
	resp, err := f.svc.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID:       f.customer.ID.String(),
		Month:            2,
		Year:             2026,
		MeterValue:       decimal.NewFromInt(112),
		PreviousOverride: &override,
	})
	require.NoError(t, err)

	assert.True(t, resp.Reading.PreviousValue.Equal(decimal.NewFromInt(105)))
	assert.True(t, resp.Reading.UsageAmount.Equal(decimal.NewFromInt(7)))
}

func TestRecord_MeterRegression(t *testing.T) {
	f := newFixture(t)
	f.record(t, 1, 2026, 100)

	_, err := f.svc.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID: f.customer.ID.String(),
		Month:      2,
		Year:       2026,
		MeterValue: decimal.NewFromInt(99),
	})
	require.ErrorIs(t, err, readingdomain.ErrMeterRegression)
}

func TestRecord_DuplicatePeriod(t *testing.T) {
	f := newFixture(t)
	f.record(t, 1, 2026, 100)

	_, err := f.svc.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID: f.customer.ID.String(),
		Month:      1,
		Year:       2026,
		MeterValue: decimal.NewFromInt(120),
	})
	require.ErrorIs(t, err, readingdomain.ErrReadingExists)
}

func TestRecord_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID: f.customer.ID.String(),
		Month:      13,
		Year:       2026,
		MeterValue: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, readingdomain.ErrInvalidPeriod)
}

func TestRecord_UnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Record(context.Background(), readingdomain.RecordRequest{
		CustomerID: f.node.Generate().String(),
		Month:      1,
		Year:       2026,
		MeterValue: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, customerdomain.ErrCustomerNotFound)
}

func TestRecord_BillPersistedWithReading(t *testing.T) {
	f := newFixture(t)

	resp := f.record(t, 1, 2026, 100)

	var bill billingdomain.Bill
	require.NoError(t, f.db.Where("reading_id = ?", resp.Reading.ID).First(&bill).Error)
	assert.Equal(t, resp.Bill.ID, bill.ID)
}

func TestDelete_RemovesReadingAndBill(t *testing.T) {
	f := newFixture(t)
	resp := f.record(t, 1, 2026, 100)

	require.NoError(t, f.svc.Delete(context.Background(), resp.Reading.ID.String()))

	var readings int64
	require.NoError(t, f.db.Model(&readingdomain.Reading{}).Count(&readings).Error)
	assert.Zero(t, readings)

	var bills int64
	require.NoError(t, f.db.Model(&billingdomain.Bill{}).Count(&bills).Error)
	assert.Zero(t, bills)
}

func TestDelete_BlockedWhenBillPaid(t *testing.T) {
	f := newFixture(t)
	resp := f.record(t, 1, 2026, 100)

	require.NoError(t, f.db.Model(resp.Bill).Update("status", billingdomain.StatusPaid).Error)

	err := f.svc.Delete(context.Background(), resp.Reading.ID.String())
	require.ErrorIs(t, err, readingdomain.ErrBillPaid)
}
