// Package service computes the dashboard overview for the report landing
// screen.
package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tirtalabs/tirta/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Overview struct {
	Customers       int64           `json:"customers"`
	ActiveCustomers int64           `json:"active_customers"`
	UnpaidBills     int64           `json:"unpaid_bills"`
	UnpaidAmount    decimal.Decimal `json:"unpaid_amount"`
	OverdueBills    int64           `json:"overdue_bills"`
	MonthRevenue    decimal.Decimal `json:"month_revenue"`
	MonthExpense    decimal.Decimal `json:"month_expense"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("overview.service"),
		clock: p.Clock,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*Overview, error) {
	now := s.clock.Now(ctx)
	out := &Overview{
		UnpaidAmount: decimal.Zero,
		MonthRevenue: decimal.Zero,
		MonthExpense: decimal.Zero,
	}

	db := s.db.WithContext(ctx)
	if err := db.Raw(`SELECT COUNT(1) FROM customers`).Scan(&out.Customers).Error; err != nil {
		return nil, err
	}
	if err := db.Raw(`SELECT COUNT(1) FROM customers WHERE status = 'ACTIVE'`).Scan(&out.ActiveCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Raw(`SELECT COUNT(1) FROM bills WHERE status = 'UNPAID'`).Scan(&out.UnpaidBills).Error; err != nil {
		return nil, err
	}

	var unpaidAmount decimal.NullDecimal
	if err := db.Raw(`SELECT SUM(amount) FROM bills WHERE status = 'UNPAID'`).Scan(&unpaidAmount).Error; err != nil {
		return nil, err
	}
	if unpaidAmount.Valid {
		out.UnpaidAmount = unpaidAmount.Decimal
	}

	if err := db.Raw(
		`SELECT COUNT(1) FROM bills WHERE status = 'UNPAID' AND due_date < ?`, now,
	).Scan(&out.OverdueBills).Error; err != nil {
		return nil, err
	}

	month := int(now.Month())
	year := now.Year()

	var monthRevenue decimal.NullDecimal
	if err := db.Raw(
		`SELECT SUM(amount) FROM transactions
		 WHERE type IN ('REVENUE', 'OTHER_INCOME')
		 AND ((period_month = ? AND period_year = ?) OR (period_month IS NULL AND date >= ? AND date < ?))`,
		month, year, startOfMonth(now), startOfNextMonth(now),
	).Scan(&monthRevenue).Error; err != nil {
		return nil, err
	}
	if monthRevenue.Valid {
		out.MonthRevenue = monthRevenue.Decimal
	}

	var monthExpense decimal.NullDecimal
	if err := db.Raw(
		`SELECT SUM(amount) FROM transactions WHERE type = 'EXPENSE' AND date >= ? AND date < ?`,
		startOfMonth(now), startOfNextMonth(now),
	).Scan(&monthExpense).Error; err != nil {
		return nil, err
	}
	if monthExpense.Valid {
		out.MonthExpense = monthExpense.Decimal
	}

	return out, nil
}
