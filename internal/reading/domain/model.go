// Package domain contains the meter reading model and recorder contracts.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	"github.com/tirtalabs/tirta/pkg/apperr"
	"github.com/tirtalabs/tirta/pkg/db/pagination"
)

// Reading is the cumulative meter value recorded for one customer in one
// billing period. UsageAmount is the delta against the previous period and
// never goes negative: a water meter does not run backward.
type Reading struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	CustomerID    snowflake.ID    `json:"customer_id" gorm:"not null;uniqueIndex:idx_reading_customer_period,priority:1"`
	PeriodMonth   int             `json:"period_month" gorm:"not null;uniqueIndex:idx_reading_customer_period,priority:2"`
	PeriodYear    int             `json:"period_year" gorm:"not null;uniqueIndex:idx_reading_customer_period,priority:3"`
	MeterValue    decimal.Decimal `json:"meter_value" gorm:"type:decimal(18,2);not null"`
	PreviousValue decimal.Decimal `json:"previous_value" gorm:"type:decimal(18,2);not null"`
	UsageAmount   decimal.Decimal `json:"usage_amount" gorm:"type:decimal(18,2);not null"`
	RecordedAt    time.Time       `json:"recorded_at" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
}

func (Reading) TableName() string { return "meter_readings" }

type RecordRequest struct {
	CustomerID string          `json:"customer_id" binding:"required"`
	Month      int             `json:"month" binding:"required"`
	Year       int             `json:"year" binding:"required"`
	MeterValue decimal.Decimal `json:"meter_value"`
	RecordedAt time.Time       `json:"recorded_at"`

	// PreviousOverride replaces the looked-up prior reading, for meter
	// swaps and first readings with a known start value.
	PreviousOverride *decimal.Decimal `json:"previous_override,omitempty"`
}

// RecordResponse carries the reading together with the bill created in the
// same unit of work.
type RecordResponse struct {
	Reading *Reading            `json:"reading"`
	Bill    *billingdomain.Bill `json:"bill"`
}

type ListRequest struct {
	CustomerID string `form:"customer_id"`
	Month      int    `form:"month"`
	Year       int    `form:"year"`
	pagination.Pagination
}

type ListResponse struct {
	Readings []Reading            `json:"readings"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Record(ctx context.Context, req RecordRequest) (*RecordResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Reading, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, reading *Reading) error
	Delete(ctx context.Context, id snowflake.ID) error
	FindByID(ctx context.Context, id snowflake.ID) (*Reading, error)
	FindByPeriod(ctx context.Context, customerID snowflake.ID, month, year int) (*Reading, error)
	List(ctx context.Context, req ListRequest) ([]Reading, int64, error)
}

var (
	ErrInvalidReadingID = apperr.Validation("invalid_reading_id", "reading id is not valid")
	ErrInvalidPeriod    = apperr.Validation("invalid_period", "billing period must be a month between 1 and 12 and a four digit year")
	ErrInvalidMeter     = apperr.Validation("invalid_meter_value", "meter value may not be negative")
	ErrMeterRegression  = apperr.Validation("meter_value_regression", "end reading may not be smaller than the starting reading")
	ErrReadingExists    = apperr.Conflict("reading_exists", "a reading already exists for this customer and period")
	ErrReadingNotFound  = apperr.NotFound("reading_not_found", "reading does not exist")
	ErrBillPaid         = apperr.Conflict("reading_bill_paid", "reading belongs to a paid bill and may not be deleted")
)

// PreviousPeriod steps one month back, rolling the year at January.
func PreviousPeriod(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}
