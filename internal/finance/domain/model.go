// Package domain defines the financial statement views derived from the
// transaction ledger.
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
)

// LedgerRow is one line of the running-balance ledger view. Debit is cash
// in, credit is cash out, Balance is the running balance after this row.
type LedgerRow struct {
	Date        time.Time                    `json:"date"`
	Type        ledgerdomain.TransactionType `json:"type"`
	Category    string                       `json:"category"`
	Description string                       `json:"description"`
	Debit       decimal.Decimal              `json:"debit"`
	Credit      decimal.Decimal              `json:"credit"`
	Balance     decimal.Decimal              `json:"balance"`
}

type LedgerView struct {
	// Rows are presented most recent first; balances were computed in
	// ascending date order.
	Rows         []LedgerRow     `json:"rows"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type ProfitAndLoss struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	// ProfitMargin is a percentage; zero when there is no revenue.
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

type BalanceSheetAssets struct {
	Cash        decimal.Decimal `json:"cash"`
	Receivables decimal.Decimal `json:"receivables"`
	FixedAssets decimal.Decimal `json:"fixed_assets"`
	Total       decimal.Decimal `json:"total"`
}

type BalanceSheetEquity struct {
	Capital          decimal.Decimal `json:"capital"`
	RetainedEarnings decimal.Decimal `json:"retained_earnings"`
	Total            decimal.Decimal `json:"total"`
}

// BalanceSheet reports receivables and fixed assets as explicit zero line
// items; the system does not track them, and statement totals must stay
// self-consistent.
type BalanceSheet struct {
	Assets BalanceSheetAssets `json:"assets"`
	Equity BalanceSheetEquity `json:"equity"`
}

type CashFlow struct {
	Operating  decimal.Decimal `json:"operating"`
	Financing  decimal.Decimal `json:"financing"`
	Investing  decimal.Decimal `json:"investing"`
	EndingCash decimal.Decimal `json:"ending_cash"`
}

// JournalRow is one period (and, for manual entries, category) aggregate
// used by the report screens.
type JournalRow struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Category string          `json:"category,omitempty"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// Service computes every statement as a pure transform over the ledger
// snapshot; nothing here writes. year == 0 means all time.
type Service interface {
	Ledger(ctx context.Context, year int) (*LedgerView, error)
	ProfitAndLoss(ctx context.Context, year int) (*ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, year int) (*BalanceSheet, error)
	CashFlow(ctx context.Context, year int) (*CashFlow, error)
	RevenueJournal(ctx context.Context, year int) ([]JournalRow, error)
	IncomeJournal(ctx context.Context, year int) ([]JournalRow, error)
	ExpenseJournal(ctx context.Context, year int) ([]JournalRow, error)
}
