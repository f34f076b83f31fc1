package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  ledgerdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerdomain.Transaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{DB: db, Log: zap.NewNop(), GenID: node})
	return &fixture{db: db, node: node, svc: svc}
}

func (f *fixture) createBillLinked(t *testing.T, year int) *ledgerdomain.Transaction {
	t.Helper()
	ref := f.node.Generate()
	month := 1
	tx := &ledgerdomain.Transaction{
		ID:          f.node.Generate(),
		Type:        ledgerdomain.TypeRevenue,
		Amount:      decimal.NewFromInt(51000),
		Category:    "BILLING",
		Description: "Bill payment Budi Santoso (1/2026)",
		Date:        time.Date(year+1, 2, 1, 0, 0, 0, 0, time.UTC),
		ReferenceID: &ref,
		PeriodMonth: &month,
		PeriodYear:  &year,
	}
	require.NoError(t, f.db.Create(tx).Error)
	return tx
}

func TestCreate_Manual(t *testing.T) {
	f := newFixture(t)

	tx, err := f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type:     ledgerdomain.TypeExpense,
		Amount:   decimal.NewFromInt(20000),
		Category: "  SALARY  ",
		Date:     time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "SALARY", tx.Category)
	assert.Nil(t, tx.ReferenceID)
	assert.NotZero(t, tx.ID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type: "TRANSFER", Amount: decimal.NewFromInt(10), Category: "X", Date: date,
	})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidType)

	_, err = f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type: ledgerdomain.TypeExpense, Amount: decimal.Zero, Category: "X", Date: date,
	})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidAmount)

	_, err = f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type: ledgerdomain.TypeExpense, Amount: decimal.NewFromInt(10), Category: " ", Date: date,
	})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidCategory)

	_, err = f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type: ledgerdomain.TypeExpense, Amount: decimal.NewFromInt(10), Category: "X",
	})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidDate)
}

func TestUpdate_BillLinkedRejected(t *testing.T) {
	f := newFixture(t)
	linked := f.createBillLinked(t, 2026)

	_, err := f.svc.Update(context.Background(), ledgerdomain.UpdateRequest{
		ID:       linked.ID.String(),
		Type:     ledgerdomain.TypeRevenue,
		Amount:   decimal.NewFromInt(1),
		Category: "BILLING",
		Date:     linked.Date,
	})
	require.ErrorIs(t, err, ledgerdomain.ErrBillLinked)
}

func TestDelete_BillLinkedRejected(t *testing.T) {
	f := newFixture(t)
	linked := f.createBillLinked(t, 2026)

	err := f.svc.Delete(context.Background(), linked.ID.String())
	require.ErrorIs(t, err, ledgerdomain.ErrBillLinked)
}

func TestDelete_Manual(t *testing.T) {
	f := newFixture(t)
	tx, err := f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type:     ledgerdomain.TypeExpense,
		Amount:   decimal.NewFromInt(20000),
		Category: "SALARY",
		Date:     time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), tx.ID.String()))

	_, err = f.svc.GetByID(context.Background(), tx.ID.String())
	require.ErrorIs(t, err, ledgerdomain.ErrTransactionNotFound)
}

func TestList_YearFollowsBillingPeriod(t *testing.T) {
	f := newFixture(t)

	// Paid in January 2027 but covering a 2026 billing period.
	f.createBillLinked(t, 2026)

	_, err := f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
		Type:     ledgerdomain.TypeExpense,
		Amount:   decimal.NewFromInt(5000),
		Category: "REPAIRS",
		Date:     time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	in2026, err := f.svc.List(context.Background(), ledgerdomain.ListRequest{Year: 2026})
	require.NoError(t, err)
	require.Len(t, in2026, 1)
	assert.Equal(t, ledgerdomain.TypeRevenue, in2026[0].Type)

	in2027, err := f.svc.List(context.Background(), ledgerdomain.ListRequest{Year: 2027})
	require.NoError(t, err)
	require.Len(t, in2027, 1)
	assert.Equal(t, ledgerdomain.TypeExpense, in2027[0].Type)
}

func TestList_TypeFilter(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, entry := range []struct {
		txType   ledgerdomain.TransactionType
		category string
	}{
		{ledgerdomain.TypeCapital, "OWNER"},
		{ledgerdomain.TypeExpense, "SALARY"},
		{ledgerdomain.TypeExpense, "REPAIRS"},
	} {
		_, err := f.svc.Create(context.Background(), ledgerdomain.CreateRequest{
			Type:     entry.txType,
			Amount:   decimal.NewFromInt(1000),
			Category: entry.category,
			Date:     date,
		})
		require.NoError(t, err)
	}

	expenses, err := f.svc.List(context.Background(), ledgerdomain.ListRequest{Type: ledgerdomain.TypeExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}
