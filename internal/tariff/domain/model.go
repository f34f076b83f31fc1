// Package domain contains the tariff model and service contracts.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tirtalabs/tirta/pkg/apperr"
)

// Tariff is a pricing schedule: a rate per consumed unit plus a fixed
// monthly base fee. Bills snapshot these numbers at calculation time, so
// editing a tariff only affects bills issued afterwards.
type Tariff struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:text;not null;uniqueIndex"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit" gorm:"type:decimal(18,2);not null"`
	BaseFee     decimal.Decimal `json:"base_fee" gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`
}

func (Tariff) TableName() string { return "tariffs" }

type CreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
	BaseFee     decimal.Decimal `json:"base_fee"`
}

type UpdateRequest struct {
	ID          string          `json:"-"`
	Name        string          `json:"name" binding:"required"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
	BaseFee     decimal.Decimal `json:"base_fee"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Tariff, error)
	Update(ctx context.Context, req UpdateRequest) (*Tariff, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Tariff, error)
	List(ctx context.Context) ([]Tariff, error)
}

type Repository interface {
	Insert(ctx context.Context, tariff *Tariff) error
	Update(ctx context.Context, tariff *Tariff) error
	Delete(ctx context.Context, id snowflake.ID) error
	FindByID(ctx context.Context, id snowflake.ID) (*Tariff, error)
	List(ctx context.Context) ([]Tariff, error)
	CountCustomers(ctx context.Context, tariffID snowflake.ID) (int64, error)
}

var (
	ErrInvalidTariffID = apperr.Validation("invalid_tariff_id", "tariff id is not valid")
	ErrInvalidName     = apperr.Validation("invalid_tariff_name", "tariff name is required")
	ErrInvalidAmount   = apperr.Validation("invalid_tariff_amount", "rate per unit and base fee may not be negative")
	ErrTariffNotFound  = apperr.NotFound("tariff_not_found", "tariff does not exist")
	ErrTariffNameTaken = apperr.Conflict("tariff_name_taken", "a tariff with this name already exists")
	ErrTariffInUse     = apperr.Conflict("tariff_in_use", "tariff is still assigned to customers")
)
