package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) tariffdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, tariff *tariffdomain.Tariff) error {
	return r.db.WithContext(ctx).Create(tariff).Error
}

func (r *repository) Update(ctx context.Context, tariff *tariffdomain.Tariff) error {
	return r.db.WithContext(ctx).Save(tariff).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&tariffdomain.Tariff{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*tariffdomain.Tariff, error) {
	var tariff tariffdomain.Tariff
	err := r.db.WithContext(ctx).First(&tariff, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tariff, nil
}

func (r *repository) List(ctx context.Context) ([]tariffdomain.Tariff, error) {
	var tariffs []tariffdomain.Tariff
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tariffs).Error
	return tariffs, err
}

func (r *repository) CountCustomers(ctx context.Context, tariffID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM customers WHERE tariff_id = ?`,
		tariffID,
	).Scan(&count).Error
	return count, err
}
