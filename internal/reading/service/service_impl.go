package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	billingrepo "github.com/tirtalabs/tirta/internal/billing/repository"
	"github.com/tirtalabs/tirta/internal/clock"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	customerrepo "github.com/tirtalabs/tirta/internal/customer/repository"
	readingdomain "github.com/tirtalabs/tirta/internal/reading/domain"
	"github.com/tirtalabs/tirta/internal/reading/repository"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	tariffrepo "github.com/tirtalabs/tirta/internal/tariff/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	clock        clock.Clock
	repo         readingdomain.Repository
	billRepo     billingdomain.Repository
	customerRepo customerdomain.Repository
	tariffRepo   tariffdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) readingdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("reading.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         repository.NewRepository(p.DB),
		billRepo:     billingrepo.NewRepository(p.DB),
		customerRepo: customerrepo.NewRepository(p.DB),
		tariffRepo:   tariffrepo.NewRepository(p.DB),
	}
}

// Record validates a meter reading, derives the period's usage from the
// previous reading and persists the reading together with its bill in one
// database transaction.
func (s *Service) Record(ctx context.Context, req readingdomain.RecordRequest) (*readingdomain.RecordResponse, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, customerdomain.ErrInvalidCustomerID
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 || req.Year > 2200 {
		return nil, readingdomain.ErrInvalidPeriod
	}
	if req.MeterValue.IsNegative() {
		return nil, readingdomain.ErrInvalidMeter
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrCustomerNotFound
	}

	tariff, err := s.tariffRepo.FindByID(ctx, customer.TariffID)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, tariffdomain.ErrTariffNotFound
	}

	existing, err := s.repo.FindByPeriod(ctx, customerID, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, readingdomain.ErrReadingExists
	}

	previous, err := s.resolvePrevious(ctx, customerID, req)
	if err != nil {
		return nil, err
	}
	if req.MeterValue.LessThan(previous) {
		return nil, readingdomain.ErrMeterRegression
	}
	usage := req.MeterValue.Sub(previous)

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.clock.Now(ctx)
	}

	reading := &readingdomain.Reading{
		ID:            s.genID.Generate(),
		CustomerID:    customerID,
		PeriodMonth:   req.Month,
		PeriodYear:    req.Year,
		MeterValue:    req.MeterValue,
		PreviousValue: previous,
		UsageAmount:   usage,
		RecordedAt:    recordedAt.UTC(),
	}

	bill := &billingdomain.Bill{
		ID:          s.genID.Generate(),
		CustomerID:  customerID,
		ReadingID:   reading.ID,
		Amount:      billingdomain.Calculate(usage, tariff.RatePerUnit, tariff.BaseFee),
		RatePerUnit: tariff.RatePerUnit,
		BaseFee:     tariff.BaseFee,
		DueDate:     billingdomain.DueDate(req.Month, req.Year),
		Status:      billingdomain.StatusUnpaid,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewRepository(tx).Insert(ctx, reading); err != nil {
			return err
		}
		return billingrepo.NewRepository(tx).Insert(ctx, bill)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, readingdomain.ErrReadingExists
		}
		return nil, err
	}

	s.log.Info("reading recorded",
		zap.String("customer_id", customerID.String()),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.String("usage", usage.String()),
	)
	return &readingdomain.RecordResponse{Reading: reading, Bill: bill}, nil
}

func (s *Service) resolvePrevious(ctx context.Context, customerID snowflake.ID, req readingdomain.RecordRequest) (decimal.Decimal, error) {
	if req.PreviousOverride != nil {
		if req.PreviousOverride.IsNegative() {
			return decimal.Zero, readingdomain.ErrInvalidMeter
		}
		return *req.PreviousOverride, nil
	}

	prevMonth, prevYear := readingdomain.PreviousPeriod(req.Month, req.Year)
	prev, err := s.repo.FindByPeriod(ctx, customerID, prevMonth, prevYear)
	if err != nil {
		return decimal.Zero, err
	}
	if prev == nil {
		return decimal.Zero, nil
	}
	return prev.MeterValue, nil
}

// Delete removes a reading and its bill, provided the bill has not been
// paid. Paid history stays on the books.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return readingdomain.ErrInvalidReadingID
	}

	reading, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if reading == nil {
		return readingdomain.ErrReadingNotFound
	}

	bill, err := s.billRepo.FindByReadingID(ctx, id)
	if err != nil {
		return err
	}
	if bill != nil && bill.Status == billingdomain.StatusPaid {
		return readingdomain.ErrBillPaid
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := billingrepo.NewRepository(tx).DeleteByReadingID(ctx, id); err != nil {
			return err
		}
		return repository.NewRepository(tx).Delete(ctx, id)
	})
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*readingdomain.Reading, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, readingdomain.ErrInvalidReadingID
	}
	reading, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, readingdomain.ErrReadingNotFound
	}
	return reading, nil
}

func (s *Service) List(ctx context.Context, req readingdomain.ListRequest) (readingdomain.ListResponse, error) {
	readings, total, err := s.repo.List(ctx, req)
	if err != nil {
		return readingdomain.ListResponse{}, err
	}
	return readingdomain.ListResponse{
		Readings: readings,
		PageInfo: req.Pagination.PageInfo(total),
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
