package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	"github.com/tirtalabs/tirta/internal/ledger/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	repo  ledgerdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req ledgerdomain.CreateRequest) (*ledgerdomain.Transaction, error) {
	if err := validateEntry(req.Type, req); err != nil {
		return nil, err
	}

	tx := &ledgerdomain.Transaction{
		ID:          s.genID.Generate(),
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date.UTC(),
	}
	if err := s.repo.Insert(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) Update(ctx context.Context, req ledgerdomain.UpdateRequest) (*ledgerdomain.Transaction, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, ledgerdomain.ErrInvalidTransactionID
	}
	if err := validateEntry(req.Type, ledgerdomain.CreateRequest{
		Type:     req.Type,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
	}); err != nil {
		return nil, err
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ledgerdomain.ErrTransactionNotFound
	}
	if tx.FromBillPayment() {
		return nil, ledgerdomain.ErrBillLinked
	}

	tx.Type = req.Type
	tx.Amount = req.Amount
	tx.Category = strings.TrimSpace(req.Category)
	tx.Description = strings.TrimSpace(req.Description)
	tx.Date = req.Date.UTC()
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return ledgerdomain.ErrInvalidTransactionID
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return ledgerdomain.ErrTransactionNotFound
	}
	if tx.FromBillPayment() {
		return ledgerdomain.ErrBillLinked
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*ledgerdomain.Transaction, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, ledgerdomain.ErrInvalidTransactionID
	}
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ledgerdomain.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *Service) List(ctx context.Context, req ledgerdomain.ListRequest) ([]ledgerdomain.Transaction, error) {
	txs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ledgerdomain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if req.Type != "" && tx.Type != req.Type {
			continue
		}
		if req.Year != 0 && !inYear(tx, req.Year) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *Service) Snapshot(ctx context.Context, year int) ([]ledgerdomain.Transaction, error) {
	return s.List(ctx, ledgerdomain.ListRequest{Year: year})
}

// inYear scopes a transaction to a reporting year. Bill payment revenue
// belongs to the year of the billing period it covers, not the calendar
// year the money arrived in.
func inYear(tx ledgerdomain.Transaction, year int) bool {
	if tx.PeriodYear != nil {
		return *tx.PeriodYear == year
	}
	return tx.Date.Year() == year
}

func validateEntry(entryType ledgerdomain.TransactionType, req ledgerdomain.CreateRequest) error {
	if !entryType.Valid() {
		return ledgerdomain.ErrInvalidType
	}
	if !req.Amount.IsPositive() {
		return ledgerdomain.ErrInvalidAmount
	}
	if strings.TrimSpace(req.Category) == "" {
		return ledgerdomain.ErrInvalidCategory
	}
	if req.Date.IsZero() {
		return ledgerdomain.ErrInvalidDate
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
