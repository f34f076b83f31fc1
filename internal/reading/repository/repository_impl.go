package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	readingdomain "github.com/tirtalabs/tirta/internal/reading/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) readingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, reading *readingdomain.Reading) error {
	return r.db.WithContext(ctx).Create(reading).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&readingdomain.Reading{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*readingdomain.Reading, error) {
	var reading readingdomain.Reading
	err := r.db.WithContext(ctx).First(&reading, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *repository) FindByPeriod(ctx context.Context, customerID snowflake.ID, month, year int) (*readingdomain.Reading, error) {
	var reading readingdomain.Reading
	err := r.db.WithContext(ctx).
		First(&reading, "customer_id = ? AND period_month = ? AND period_year = ?", customerID, month, year).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *repository) List(ctx context.Context, req readingdomain.ListRequest) ([]readingdomain.Reading, int64, error) {
	query := r.db.WithContext(ctx).Model(&readingdomain.Reading{})
	if req.CustomerID != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return nil, 0, readingdomain.ErrInvalidReadingID
		}
		query = query.Where("customer_id = ?", id)
	}
	if req.Month != 0 {
		query = query.Where("period_month = ?", req.Month)
	}
	if req.Year != 0 {
		query = query.Where("period_year = ?", req.Year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var readings []readingdomain.Reading
	err := req.Pagination.Scope(query).
		Order("period_year DESC, period_month DESC").
		Find(&readings).Error
	return readings, total, err
}
