package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) billingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, bill *billingdomain.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *repository) Update(ctx context.Context, bill *billingdomain.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*billingdomain.Bill, error) {
	return r.find(ctx, r.db, id)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id snowflake.ID) (*billingdomain.Bill, error) {
	return r.find(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.Bill, error) {
	var bill billingdomain.Bill
	err := db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repository) FindByReadingID(ctx context.Context, readingID snowflake.ID) (*billingdomain.Bill, error) {
	var bill billingdomain.Bill
	err := r.db.WithContext(ctx).First(&bill, "reading_id = ?", readingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repository) DeleteByReadingID(ctx context.Context, readingID snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&billingdomain.Bill{}, "reading_id = ?", readingID).Error
}

func (r *repository) GetBillContext(ctx context.Context, id snowflake.ID) (*billingdomain.BillContext, error) {
	var row billingdomain.BillContext
	err := r.db.WithContext(ctx).Raw(
		`SELECT c.name AS customer_name, m.period_month, m.period_year
		 FROM bills b
		 JOIN customers c ON c.id = b.customer_id
		 JOIN meter_readings m ON m.id = b.reading_id
		 WHERE b.id = ?`,
		id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.PeriodYear == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context, req billingdomain.ListRequest) ([]billingdomain.BillView, int64, error) {
	base := r.db.WithContext(ctx).Table("bills b").
		Joins("JOIN customers c ON c.id = b.customer_id").
		Joins("JOIN meter_readings m ON m.id = b.reading_id")

	if req.CustomerID != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return nil, 0, billingdomain.ErrInvalidBillID
		}
		base = base.Where("b.customer_id = ?", id)
	}
	if req.Status == billingdomain.StatusPaid || req.Status == billingdomain.StatusUnpaid {
		base = base.Where("b.status = ?", req.Status)
	}
	if req.Year != 0 {
		base = base.Where("m.period_year = ?", req.Year)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var views []billingdomain.BillView
	err := req.Pagination.Scope(base).
		Select("b.*, c.name AS customer_name, m.period_month, m.period_year").
		Order("m.period_year DESC, m.period_month DESC, c.name ASC").
		Scan(&views).Error
	return views, total, err
}
