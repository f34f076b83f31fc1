// Package domain contains the bill model, the bill amount calculation and
// the payment state machine contracts.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	"github.com/tirtalabs/tirta/pkg/apperr"
	"github.com/tirtalabs/tirta/pkg/db/pagination"
)

type BillStatus string

const (
	StatusUnpaid BillStatus = "UNPAID"
	StatusPaid   BillStatus = "PAID"

	// StatusOverdue is derived on read, never persisted.
	StatusOverdue BillStatus = "OVERDUE"
)

// Bill is the monetary obligation produced by one meter reading.
// RatePerUnit and BaseFee snapshot the tariff at calculation time so later
// tariff edits leave issued bills untouched.
type Bill struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	CustomerID    snowflake.ID    `json:"customer_id" gorm:"not null;index"`
	ReadingID     snowflake.ID    `json:"reading_id" gorm:"not null;uniqueIndex"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	RatePerUnit   decimal.Decimal `json:"rate_per_unit" gorm:"type:decimal(18,2);not null"`
	BaseFee       decimal.Decimal `json:"base_fee" gorm:"type:decimal(18,2);not null"`
	DueDate       time.Time       `json:"due_date" gorm:"not null"`
	Status        BillStatus      `json:"status" gorm:"type:text;not null;default:'UNPAID'"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty" gorm:"type:text"`
	ReceiptNumber *string         `json:"receipt_number,omitempty" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null"`
}

func (Bill) TableName() string { return "bills" }

// DisplayStatus derives OVERDUE for unpaid bills past their due date.
func (b Bill) DisplayStatus(now time.Time) BillStatus {
	if b.Status == StatusUnpaid && b.DueDate.Before(now) {
		return StatusOverdue
	}
	return b.Status
}

// BillView is a bill enriched with the derived status and reading period.
type BillView struct {
	Bill          `gorm:"embedded"`
	DisplayStatus BillStatus `json:"display_status" gorm:"-"`
	CustomerName  string     `json:"customer_name"`
	PeriodMonth   int        `json:"period_month"`
	PeriodYear    int        `json:"period_year"`
}

type PayRequest struct {
	BillID        string `json:"-"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type PayResponse struct {
	Bill        *Bill                     `json:"bill"`
	Transaction *ledgerdomain.Transaction `json:"transaction"`
}

type ListRequest struct {
	CustomerID string     `form:"customer_id"`
	Status     BillStatus `form:"status"`
	Year       int        `form:"year"`
	pagination.Pagination
}

type ListResponse struct {
	Bills    []BillView           `json:"bills"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type Service interface {
	MarkPaid(ctx context.Context, req PayRequest) (*PayResponse, error)
	MarkUnpaid(ctx context.Context, billID string) (*Bill, error)
	GetByID(ctx context.Context, billID string) (*BillView, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

// BillContext is the customer and period detail needed to describe a
// payment on the ledger.
type BillContext struct {
	CustomerName string
	PeriodMonth  int
	PeriodYear   int
}

type Repository interface {
	Insert(ctx context.Context, bill *Bill) error
	Update(ctx context.Context, bill *Bill) error
	FindByID(ctx context.Context, id snowflake.ID) (*Bill, error)
	// FindByIDForUpdate row-locks the bill so concurrent payments on the
	// same bill serialize.
	FindByIDForUpdate(ctx context.Context, id snowflake.ID) (*Bill, error)
	FindByReadingID(ctx context.Context, readingID snowflake.ID) (*Bill, error)
	DeleteByReadingID(ctx context.Context, readingID snowflake.ID) error
	GetBillContext(ctx context.Context, id snowflake.ID) (*BillContext, error)
	List(ctx context.Context, req ListRequest) ([]BillView, int64, error)
}

var (
	ErrInvalidBillID        = apperr.Validation("invalid_bill_id", "bill id is not valid")
	ErrInvalidPaymentMethod = apperr.Validation("invalid_payment_method", "payment method is required")
	ErrBillNotFound         = apperr.NotFound("bill_not_found", "bill does not exist")
	ErrBillAlreadyPaid      = apperr.Conflict("bill_already_paid", "bill has already been paid")
	ErrBillNotPaid          = apperr.Conflict("bill_not_paid", "bill is not paid")
)
