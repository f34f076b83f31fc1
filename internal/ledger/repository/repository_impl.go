package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ledgerdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, tx *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *repository) Update(ctx context.Context, tx *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&ledgerdomain.Transaction{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*ledgerdomain.Transaction, error) {
	var tx ledgerdomain.Transaction
	err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *repository) ListAll(ctx context.Context) ([]ledgerdomain.Transaction, error) {
	var txs []ledgerdomain.Transaction
	err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&txs).Error
	return txs, err
}

func (r *repository) DeleteByReference(ctx context.Context, referenceID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("type = ? AND reference_id = ?", ledgerdomain.TypeRevenue, referenceID).
		Delete(&ledgerdomain.Transaction{}).Error
}
