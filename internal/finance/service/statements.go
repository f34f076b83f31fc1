package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	financedomain "github.com/tirtalabs/tirta/internal/finance/domain"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
)

var hundred = decimal.NewFromInt(100)

// AggregateBillingPeriods folds all bill-payment revenue for one billing
// period into a single synthetic transaction dated at the period's end,
// regardless of when the payments actually landed. Late payments therefore
// shift into the accounting period they belong to; the cash-flow view
// inherits that shift on purpose. Everything else passes through.
func AggregateBillingPeriods(txs []ledgerdomain.Transaction) []ledgerdomain.Transaction {
	type periodKey struct {
		year  int
		month int
	}

	out := make([]ledgerdomain.Transaction, 0, len(txs))
	sums := make(map[periodKey]decimal.Decimal)
	var order []periodKey

	for _, tx := range txs {
		if tx.Type != ledgerdomain.TypeRevenue || tx.PeriodMonth == nil || tx.PeriodYear == nil {
			out = append(out, tx)
			continue
		}
		key := periodKey{year: *tx.PeriodYear, month: *tx.PeriodMonth}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] = sums[key].Add(tx.Amount)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	for _, key := range order {
		month := key.month
		year := key.year
		out = append(out, ledgerdomain.Transaction{
			Type:        ledgerdomain.TypeRevenue,
			Amount:      sums[key],
			Category:    "BILLING",
			Description: fmt.Sprintf("Payment collected for period %s %d", time.Month(month).String(), year),
			Date:        endOfPeriod(month, year),
			PeriodMonth: &month,
			PeriodYear:  &year,
		})
	}
	return out
}

// BuildLedger computes the running-balance view. Balances are accumulated
// walking the aggregated transactions in ascending date order; the rows
// are then reversed for display. Reversing first and then accumulating
// would produce different balances, so the order here is load-bearing.
func BuildLedger(txs []ledgerdomain.Transaction) *financedomain.LedgerView {
	agg := AggregateBillingPeriods(txs)
	sortByDateAsc(agg)

	view := &financedomain.LedgerView{Rows: make([]financedomain.LedgerRow, 0, len(agg))}
	balance := decimal.Zero
	for _, tx := range agg {
		row := financedomain.LedgerRow{
			Date:        tx.Date,
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if tx.Type.Inflow() {
			row.Debit = tx.Amount
			balance = balance.Add(tx.Amount)
			if tx.Type != ledgerdomain.TypeCapital {
				view.TotalRevenue = view.TotalRevenue.Add(tx.Amount)
			}
		} else {
			row.Credit = tx.Amount
			balance = balance.Sub(tx.Amount)
			view.TotalExpense = view.TotalExpense.Add(tx.Amount)
		}
		row.Balance = balance
		view.Rows = append(view.Rows, row)
	}
	view.Balance = balance

	for i, j := 0, len(view.Rows)-1; i < j; i, j = i+1, j-1 {
		view.Rows[i], view.Rows[j] = view.Rows[j], view.Rows[i]
	}
	return view
}

func ComputeProfitAndLoss(txs []ledgerdomain.Transaction) *financedomain.ProfitAndLoss {
	totalRevenue := decimal.Zero
	totalExpense := decimal.Zero
	for _, tx := range AggregateBillingPeriods(txs) {
		switch tx.Type {
		case ledgerdomain.TypeRevenue, ledgerdomain.TypeOtherIncome:
			totalRevenue = totalRevenue.Add(tx.Amount)
		case ledgerdomain.TypeExpense:
			totalExpense = totalExpense.Add(tx.Amount)
		}
	}

	netProfit := totalRevenue.Sub(totalExpense)
	margin := decimal.Zero
	if !totalRevenue.IsZero() {
		margin = netProfit.Div(totalRevenue).Mul(hundred)
	}
	return &financedomain.ProfitAndLoss{
		TotalRevenue: totalRevenue,
		TotalExpense: totalExpense,
		NetProfit:    netProfit,
		ProfitMargin: margin,
	}
}

func ComputeBalanceSheet(txs []ledgerdomain.Transaction) *financedomain.BalanceSheet {
	ledgerView := BuildLedger(txs)
	pnl := ComputeProfitAndLoss(txs)

	capital := decimal.Zero
	for _, tx := range txs {
		if tx.Type == ledgerdomain.TypeCapital {
			capital = capital.Add(tx.Amount)
		}
	}

	assets := financedomain.BalanceSheetAssets{
		Cash:        ledgerView.Balance,
		Receivables: decimal.Zero,
		FixedAssets: decimal.Zero,
	}
	assets.Total = assets.Cash.Add(assets.Receivables).Add(assets.FixedAssets)

	equity := financedomain.BalanceSheetEquity{
		Capital:          capital,
		RetainedEarnings: pnl.NetProfit,
	}
	equity.Total = equity.Capital.Add(equity.RetainedEarnings)

	return &financedomain.BalanceSheet{Assets: assets, Equity: equity}
}

func ComputeCashFlow(txs []ledgerdomain.Transaction) *financedomain.CashFlow {
	sheet := ComputeBalanceSheet(txs)
	pnl := ComputeProfitAndLoss(txs)
	return &financedomain.CashFlow{
		Operating:  pnl.NetProfit,
		Financing:  sheet.Equity.Capital,
		Investing:  decimal.Zero,
		EndingCash: sheet.Assets.Cash,
	}
}

// BuildRevenueJournal reports one row per billing period: how many
// payments were collected and their sum.
func BuildRevenueJournal(txs []ledgerdomain.Transaction) []financedomain.JournalRow {
	type periodKey struct{ year, month int }
	counts := make(map[periodKey]int)
	sums := make(map[periodKey]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type != ledgerdomain.TypeRevenue || tx.PeriodMonth == nil || tx.PeriodYear == nil {
			continue
		}
		key := periodKey{year: *tx.PeriodYear, month: *tx.PeriodMonth}
		counts[key]++
		sums[key] = sums[key].Add(tx.Amount)
	}

	rows := make([]financedomain.JournalRow, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, financedomain.JournalRow{
			Year:   key.year,
			Month:  key.month,
			Count:  count,
			Amount: sums[key],
			Date:   endOfPeriod(key.month, key.year),
		})
	}
	sortJournalDesc(rows)
	return rows
}

// BuildManualJournal groups manually entered transactions of the given
// types by (year, month, category).
func BuildManualJournal(txs []ledgerdomain.Transaction, types ...ledgerdomain.TransactionType) []financedomain.JournalRow {
	wanted := make(map[ledgerdomain.TransactionType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	type groupKey struct {
		year     int
		month    int
		category string
	}
	counts := make(map[groupKey]int)
	sums := make(map[groupKey]decimal.Decimal)

	for _, tx := range txs {
		if !wanted[tx.Type] || tx.FromBillPayment() {
			continue
		}
		key := groupKey{year: tx.Date.Year(), month: int(tx.Date.Month()), category: tx.Category}
		counts[key]++
		sums[key] = sums[key].Add(tx.Amount)
	}

	rows := make([]financedomain.JournalRow, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, financedomain.JournalRow{
			Year:     key.year,
			Month:    key.month,
			Category: key.category,
			Count:    count,
			Amount:   sums[key],
			Date:     endOfPeriod(key.month, key.year),
		})
	}
	sortJournalDesc(rows)
	return rows
}

// endOfPeriod is the last calendar day of (month, year); day zero of the
// following month normalizes backwards.
func endOfPeriod(month, year int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

func sortByDateAsc(txs []ledgerdomain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
}

func sortJournalDesc(rows []financedomain.JournalRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Date.After(rows[j].Date)
	})
}
