package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	"github.com/tirtalabs/tirta/internal/tariff/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	repo  tariffdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) tariffdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tariff.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req tariffdomain.CreateRequest) (*tariffdomain.Tariff, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tariffdomain.ErrInvalidName
	}
	if req.RatePerUnit.IsNegative() || req.BaseFee.IsNegative() {
		return nil, tariffdomain.ErrInvalidAmount
	}

	tariff := &tariffdomain.Tariff{
		ID:          s.genID.Generate(),
		Name:        name,
		RatePerUnit: req.RatePerUnit,
		BaseFee:     req.BaseFee,
	}
	if err := s.repo.Insert(ctx, tariff); err != nil {
		if isUniqueViolation(err) {
			return nil, tariffdomain.ErrTariffNameTaken
		}
		return nil, err
	}

	s.log.Info("tariff created", zap.String("id", tariff.ID.String()), zap.String("name", name))
	return tariff, nil
}

func (s *Service) Update(ctx context.Context, req tariffdomain.UpdateRequest) (*tariffdomain.Tariff, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, tariffdomain.ErrInvalidTariffID
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tariffdomain.ErrInvalidName
	}
	if req.RatePerUnit.IsNegative() || req.BaseFee.IsNegative() {
		return nil, tariffdomain.ErrInvalidAmount
	}

	tariff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, tariffdomain.ErrTariffNotFound
	}

	tariff.Name = name
	tariff.RatePerUnit = req.RatePerUnit
	tariff.BaseFee = req.BaseFee
	if err := s.repo.Update(ctx, tariff); err != nil {
		if isUniqueViolation(err) {
			return nil, tariffdomain.ErrTariffNameTaken
		}
		return nil, err
	}
	return tariff, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return tariffdomain.ErrInvalidTariffID
	}

	tariff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tariff == nil {
		return tariffdomain.ErrTariffNotFound
	}

	inUse, err := s.repo.CountCustomers(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return tariffdomain.ErrTariffInUse
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*tariffdomain.Tariff, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, tariffdomain.ErrInvalidTariffID
	}
	tariff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, tariffdomain.ErrTariffNotFound
	}
	return tariff, nil
}

func (s *Service) List(ctx context.Context) ([]tariffdomain.Tariff, error) {
	return s.repo.List(ctx)
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
