package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	"github.com/tirtalabs/tirta/internal/customer/repository"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	tariffrepo "github.com/tirtalabs/tirta/internal/tariff/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	repo       customerdomain.Repository
	tariffRepo tariffdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) customerdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("customer.service"),
		genID:      p.GenID,
		repo:       repository.NewRepository(p.DB),
		tariffRepo: tariffrepo.NewRepository(p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateRequest) (*customerdomain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}
	meterNumber := strings.TrimSpace(req.MeterNumber)
	if meterNumber == "" {
		return nil, customerdomain.ErrInvalidMeterNumber
	}

	tariffID, err := parseID(req.TariffID)
	if err != nil {
		return nil, tariffdomain.ErrInvalidTariffID
	}
	tariff, err := s.tariffRepo.FindByID(ctx, tariffID)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, tariffdomain.ErrTariffNotFound
	}

	existing, err := s.repo.FindByMeterNumber(ctx, meterNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, customerdomain.ErrMeterNumberTaken
	}

	customer := &customerdomain.Customer{
		ID:          s.genID.Generate(),
		Name:        name,
		MeterNumber: meterNumber,
		Address:     strings.TrimSpace(req.Address),
		Status:      customerdomain.StatusActive,
		TariffID:    tariff.ID,
	}
	if err := s.repo.Insert(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("id", customer.ID.String()),
		zap.String("meter_number", meterNumber),
	)
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req customerdomain.UpdateRequest) (*customerdomain.Customer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, customerdomain.ErrInvalidCustomerID
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}
	meterNumber := strings.TrimSpace(req.MeterNumber)
	if meterNumber == "" {
		return nil, customerdomain.ErrInvalidMeterNumber
	}
	status := req.Status
	if status == "" {
		status = customerdomain.StatusActive
	}
	if status != customerdomain.StatusActive && status != customerdomain.StatusInactive {
		return nil, customerdomain.ErrInvalidStatus
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrCustomerNotFound
	}

	tariffID, err := parseID(req.TariffID)
	if err != nil {
		return nil, tariffdomain.ErrInvalidTariffID
	}
	tariff, err := s.tariffRepo.FindByID(ctx, tariffID)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, tariffdomain.ErrTariffNotFound
	}

	if meterNumber != customer.MeterNumber {
		existing, err := s.repo.FindByMeterNumber(ctx, meterNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != customer.ID {
			return nil, customerdomain.ErrMeterNumberTaken
		}
	}

	customer.Name = name
	customer.MeterNumber = meterNumber
	customer.Address = strings.TrimSpace(req.Address)
	customer.Status = status
	customer.TariffID = tariff.ID
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer together with its readings and unpaid bills.
// Customers holding PAID bills are immutable history and stay.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return customerdomain.ErrInvalidCustomerID
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return customerdomain.ErrCustomerNotFound
	}

	paid, err := s.repo.CountPaidBills(ctx, id)
	if err != nil {
		return err
	}
	if paid > 0 {
		return customerdomain.ErrCustomerHasHistory
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)
		if err := repoTx.DeleteReadingsAndBills(ctx, id); err != nil {
			return err
		}
		return repoTx.Delete(ctx, id)
	})
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*customerdomain.Customer, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, customerdomain.ErrInvalidCustomerID
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrCustomerNotFound
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, req customerdomain.ListRequest) (customerdomain.ListResponse, error) {
	customers, total, err := s.repo.List(ctx, req)
	if err != nil {
		return customerdomain.ListResponse{}, err
	}
	return customerdomain.ListResponse{
		Customers: customers,
		PageInfo:  req.Pagination.PageInfo(total),
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
