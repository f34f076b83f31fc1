// Package domain contains the customer model and service contracts.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tirtalabs/tirta/pkg/apperr"
	"github.com/tirtalabs/tirta/pkg/db/pagination"
)

type CustomerStatus string

const (
	StatusActive   CustomerStatus = "ACTIVE"
	StatusInactive CustomerStatus = "INACTIVE"
)

// Customer is a metered water connection. MeterNumber is the stable
// field identifier stamped on the physical meter; INACTIVE customers keep
// their historical readings and bills.
type Customer struct {
	ID          snowflake.ID   `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:text;not null"`
	MeterNumber string         `json:"meter_number" gorm:"type:text;not null;uniqueIndex"`
	Address     string         `json:"address" gorm:"type:text"`
	Status      CustomerStatus `json:"status" gorm:"type:text;not null;default:'ACTIVE'"`
	TariffID    snowflake.ID   `json:"tariff_id" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null"`
}

func (Customer) TableName() string { return "customers" }

type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	MeterNumber string `json:"meter_number" binding:"required"`
	Address     string `json:"address"`
	TariffID    string `json:"tariff_id" binding:"required"`
}

type UpdateRequest struct {
	ID          string         `json:"-"`
	Name        string         `json:"name" binding:"required"`
	MeterNumber string         `json:"meter_number" binding:"required"`
	Address     string         `json:"address"`
	Status      CustomerStatus `json:"status"`
	TariffID    string         `json:"tariff_id" binding:"required"`
}

type ListRequest struct {
	Status CustomerStatus `form:"status"`
	// Query matches against name and meter number.
	Query string `form:"q"`
	pagination.Pagination
}

type ListResponse struct {
	Customers []Customer           `json:"customers"`
	PageInfo  *pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	Update(ctx context.Context, req UpdateRequest) (*Customer, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id snowflake.ID) error
	FindByID(ctx context.Context, id snowflake.ID) (*Customer, error)
	FindByMeterNumber(ctx context.Context, meterNumber string) (*Customer, error)
	List(ctx context.Context, req ListRequest) ([]Customer, int64, error)
	CountPaidBills(ctx context.Context, customerID snowflake.ID) (int64, error)
	DeleteReadingsAndBills(ctx context.Context, customerID snowflake.ID) error
}

var (
	ErrInvalidCustomerID  = apperr.Validation("invalid_customer_id", "customer id is not valid")
	ErrInvalidName        = apperr.Validation("invalid_customer_name", "customer name is required")
	ErrInvalidMeterNumber = apperr.Validation("invalid_meter_number", "meter number is required")
	ErrInvalidStatus      = apperr.Validation("invalid_customer_status", "status must be ACTIVE or INACTIVE")
	ErrCustomerNotFound   = apperr.NotFound("customer_not_found", "customer does not exist")
	ErrMeterNumberTaken   = apperr.Conflict("meter_number_taken", "a customer with this meter number already exists")
	ErrCustomerHasHistory = apperr.Conflict("customer_has_paid_bills", "customer has paid bills and may not be deleted")
)
