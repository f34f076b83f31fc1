package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) customerdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, customer *customerdomain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) Update(ctx context.Context, customer *customerdomain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&customerdomain.Customer{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*customerdomain.Customer, error) {
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindByMeterNumber(ctx context.Context, meterNumber string) (*customerdomain.Customer, error) {
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).First(&customer, "meter_number = ?", meterNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, req customerdomain.ListRequest) ([]customerdomain.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&customerdomain.Customer{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(meter_number) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []customerdomain.Customer
	err := req.Pagination.Scope(query).Order("name ASC").Find(&customers).Error
	return customers, total, err
}

func (r *repository) CountPaidBills(ctx context.Context, customerID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM bills WHERE customer_id = ? AND status = 'PAID'`,
		customerID,
	).Scan(&count).Error
	return count, err
}

func (r *repository) DeleteReadingsAndBills(ctx context.Context, customerID snowflake.ID) error {
	if err := r.db.WithContext(ctx).Exec(`DELETE FROM bills WHERE customer_id = ?`, customerID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`DELETE FROM meter_readings WHERE customer_id = ?`, customerID).Error
}
