package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billPaymentTx(amount int64, month, year int, paidOn time.Time) ledgerdomain.Transaction {
	m := month
	y := year
	return ledgerdomain.Transaction{
		Type:        ledgerdomain.TypeRevenue,
		Amount:      decimal.NewFromInt(amount),
		Category:    "BILLING",
		Description: "Bill payment",
		Date:        paidOn,
		PeriodMonth: &m,
		PeriodYear:  &y,
	}
}

func manualTx(txType ledgerdomain.TransactionType, amount int64, category string, date time.Time) ledgerdomain.Transaction {
	return ledgerdomain.Transaction{
		Type:     txType,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Date:     date,
	}
}

func TestAggregateBillingPeriods_SeparatePeriodsStaySeparate(t *testing.T) {
	// Two payments land in the same calendar month but cover different
	// billing periods; they must not merge.
	paidOn := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	txs := []ledgerdomain.Transaction{
		billPaymentTx(51000, 3, 2026, paidOn),
		billPaymentTx(40000, 4, 2026, paidOn),
	}

	out := AggregateBillingPeriods(txs)
	require.Len(t, out, 2)

	assert.Equal(t, "Payment collected for period March 2026", out[0].Description)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), out[0].Date)
	assert.True(t, out[0].Amount.Equal(decimal.NewFromInt(51000)))

	assert.Equal(t, "Payment collected for period April 2026", out[1].Description)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), out[1].Date)
}

func TestAggregateBillingPeriods_SumsWithinPeriodAndRedates(t *testing.T) {
	// Payments for the same period arriving months apart fold into one
	// row dated at the period's end, not at either payment date.
	txs := []ledgerdomain.Transaction{
		billPaymentTx(30000, 1, 2026, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(20000, 1, 2026, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeExpense, 5000, "SUPPLIES", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
	}

	out := AggregateBillingPeriods(txs)
	require.Len(t, out, 2)

	// Pass-through rows keep their position ahead of the synthetic ones.
	assert.Equal(t, ledgerdomain.TypeExpense, out[0].Type)

	agg := out[1]
	assert.True(t, agg.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), agg.Date)
}

func TestBuildLedger_RunningBalance(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeCapital, 100000, "OWNER", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(51000, 1, 2026, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeExpense, 20000, "SALARY", time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeOtherIncome, 5000, "SCRAP", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	view := BuildLedger(txs)
	require.Len(t, view.Rows, 4)

	// Final balance equals inflows minus outflows regardless of order.
	assert.True(t, view.Balance.Equal(decimal.NewFromInt(100000+51000-20000+5000)))
	assert.True(t, view.TotalRevenue.Equal(decimal.NewFromInt(51000+5000)))
	assert.True(t, view.TotalExpense.Equal(decimal.NewFromInt(20000)))

	// Rows are most recent first but balances were accumulated oldest
	// first: the newest row carries the final balance.
	assert.Equal(t, ledgerdomain.TypeOtherIncome, view.Rows[0].Type)
	assert.True(t, view.Rows[0].Balance.Equal(view.Balance))

	// The oldest row is last and holds only its own contribution.
	last := view.Rows[len(view.Rows)-1]
	assert.Equal(t, ledgerdomain.TypeCapital, last.Type)
	assert.True(t, last.Balance.Equal(decimal.NewFromInt(100000)))
}

func TestBuildLedger_ExpenseOnly(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeExpense, 50000, "REPAIRS", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
	}

	view := BuildLedger(txs)
	require.Len(t, view.Rows, 1)
	assert.True(t, view.Balance.Equal(decimal.NewFromInt(-50000)))
	assert.True(t, view.Rows[0].Credit.Equal(decimal.NewFromInt(50000)))
	assert.True(t, view.Rows[0].Debit.IsZero())
}

func TestComputeProfitAndLoss(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeCapital, 100000, "OWNER", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(60000, 1, 2026, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeOtherIncome, 20000, "SCRAP", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeExpense, 40000, "SALARY", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
	}

	pnl := ComputeProfitAndLoss(txs)
	// Capital is not revenue.
	assert.True(t, pnl.TotalRevenue.Equal(decimal.NewFromInt(80000)))
	assert.True(t, pnl.TotalExpense.Equal(decimal.NewFromInt(40000)))
	assert.True(t, pnl.NetProfit.Equal(decimal.NewFromInt(40000)))
	assert.True(t, pnl.ProfitMargin.Equal(decimal.NewFromInt(50)))
}

func TestComputeProfitAndLoss_NoRevenue(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeExpense, 50000, "REPAIRS", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
	}

	pnl := ComputeProfitAndLoss(txs)
	assert.True(t, pnl.TotalRevenue.IsZero())
	assert.True(t, pnl.NetProfit.Equal(decimal.NewFromInt(-50000)))
	// Division by zero guard.
	assert.True(t, pnl.ProfitMargin.IsZero())
}

func TestComputeBalanceSheet_Reconciles(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeCapital, 100000, "OWNER", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(60000, 1, 2026, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeExpense, 40000, "SALARY", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
	}

	sheet := ComputeBalanceSheet(txs)
	assert.True(t, sheet.Assets.Cash.Equal(decimal.NewFromInt(120000)))
	assert.True(t, sheet.Assets.Receivables.IsZero())
	assert.True(t, sheet.Assets.FixedAssets.IsZero())
	assert.True(t, sheet.Equity.Capital.Equal(decimal.NewFromInt(100000)))
	assert.True(t, sheet.Equity.RetainedEarnings.Equal(decimal.NewFromInt(20000)))

	// No liabilities: assets and equity totals must reconcile.
	assert.True(t, sheet.Assets.Total.Equal(sheet.Equity.Total))
}

func TestComputeCashFlow(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeCapital, 100000, "OWNER", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(60000, 1, 2026, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		manualTx(ledgerdomain.TypeExpense, 40000, "SALARY", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
	}

	flow := ComputeCashFlow(txs)
	assert.True(t, flow.Operating.Equal(decimal.NewFromInt(20000)))
	assert.True(t, flow.Financing.Equal(decimal.NewFromInt(100000)))
	assert.True(t, flow.Investing.IsZero())
	assert.True(t, flow.EndingCash.Equal(decimal.NewFromInt(120000)))
}

func TestBuildRevenueJournal(t *testing.T) {
	txs := []ledgerdomain.Transaction{
		billPaymentTx(30000, 1, 2026, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(20000, 1, 2026, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)),
		billPaymentTx(45000, 2, 2026, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	rows := BuildRevenueJournal(txs)
	require.Len(t, rows, 2)

	// Date descending: February 2026 first.
	assert.Equal(t, 2, rows[0].Month)
	assert.Equal(t, 1, rows[0].Count)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(45000)))

	assert.Equal(t, 1, rows[1].Month)
	assert.Equal(t, 2, rows[1].Count)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(50000)))
}

func TestBuildManualJournal_GroupsByCategory(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []ledgerdomain.Transaction{
		manualTx(ledgerdomain.TypeExpense, 10000, "SALARY", date),
		manualTx(ledgerdomain.TypeExpense, 15000, "SALARY", date.AddDate(0, 0, 5)),
		manualTx(ledgerdomain.TypeExpense, 7000, "REPAIRS", date),
		manualTx(ledgerdomain.TypeOtherIncome, 9000, "SCRAP", date),
	}

	rows := BuildManualJournal(txs, ledgerdomain.TypeExpense)
	require.Len(t, rows, 2)

	byCategory := map[string]int64{}
	for _, row := range rows {
		byCategory[row.Category] = row.Amount.IntPart()
		assert.Equal(t, 2026, row.Year)
		assert.Equal(t, 3, row.Month)
	}
	assert.Equal(t, int64(25000), byCategory["SALARY"])
	assert.Equal(t, int64(7000), byCategory["REPAIRS"])
}
