// Package domain contains the ledger transaction model and contracts.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tirtalabs/tirta/pkg/apperr"
)

type TransactionType string

const (
	TypeCapital     TransactionType = "CAPITAL"
	TypeRevenue     TransactionType = "REVENUE"
	TypeOtherIncome TransactionType = "OTHER_INCOME"
	TypeExpense     TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeCapital, TypeRevenue, TypeOtherIncome, TypeExpense:
		return true
	}
	return false
}

// Inflow reports whether the type adds to the cash position.
func (t TransactionType) Inflow() bool { return t != TypeExpense }

// Transaction is one dated monetary movement. Amount is always a
// non-negative magnitude; direction is implied by Type.
//
// ReferenceID links a REVENUE row to the bill whose payment produced it and
// is only ever written by the billing payment flow. The unique index keeps
// at most one live revenue row per bill. PeriodMonth/PeriodYear carry the
// billing period the payment covers; statement aggregation groups on these
// rather than on the calendar Date the payment landed.
type Transaction struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	Type        TransactionType `json:"type" gorm:"type:text;not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	Category    string          `json:"category" gorm:"type:text;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	ReferenceID *snowflake.ID   `json:"reference_id,omitempty" gorm:"uniqueIndex"`
	PeriodMonth *int            `json:"period_month,omitempty"`
	PeriodYear  *int            `json:"period_year,omitempty"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`
}

func (Transaction) TableName() string { return "transactions" }

// FromBillPayment reports whether the billing payment flow owns this row.
func (t Transaction) FromBillPayment() bool { return t.ReferenceID != nil }

type CreateRequest struct {
	Type        TransactionType `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type UpdateRequest struct {
	ID          string          `json:"-"`
	Type        TransactionType `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type ListRequest struct {
	Year int             `form:"year"`
	Type TransactionType `form:"type"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Transaction, error)
	Update(ctx context.Context, req UpdateRequest) (*Transaction, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, req ListRequest) ([]Transaction, error)

	// Snapshot returns the full transaction set ordered by date ascending,
	// optionally restricted to one year, for statement computation.
	Snapshot(ctx context.Context, year int) ([]Transaction, error)
}

type Repository interface {
	Insert(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id snowflake.ID) error
	FindByID(ctx context.Context, id snowflake.ID) (*Transaction, error)
	ListAll(ctx context.Context) ([]Transaction, error)
	DeleteByReference(ctx context.Context, referenceID snowflake.ID) error
}

var (
	ErrInvalidTransactionID = apperr.Validation("invalid_transaction_id", "transaction id is not valid")
	ErrInvalidType          = apperr.Validation("invalid_transaction_type", "type must be CAPITAL, REVENUE, OTHER_INCOME or EXPENSE")
	ErrInvalidAmount        = apperr.Validation("invalid_transaction_amount", "amount must be greater than zero")
	ErrInvalidCategory      = apperr.Validation("invalid_transaction_category", "category is required")
	ErrInvalidDate          = apperr.Validation("invalid_transaction_date", "date is required")
	ErrTransactionNotFound  = apperr.NotFound("transaction_not_found", "transaction does not exist")
	ErrBillLinked           = apperr.Conflict("transaction_bill_linked", "bill payment transactions are managed by the billing flow")
)
