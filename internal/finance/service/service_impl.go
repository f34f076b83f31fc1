package service

import (
	"context"

	financedomain "github.com/tirtalabs/tirta/internal/finance/domain"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log       *zap.Logger
	ledgerSvc ledgerdomain.Service
}

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	LedgerSvc ledgerdomain.Service
}

func NewService(p ServiceParam) financedomain.Service {
	return &Service{
		log:       p.Log.Named("finance.service"),
		ledgerSvc: p.LedgerSvc,
	}
}

func (s *Service) Ledger(ctx context.Context, year int) (*financedomain.LedgerView, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return BuildLedger(txs), nil
}

func (s *Service) ProfitAndLoss(ctx context.Context, year int) (*financedomain.ProfitAndLoss, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return ComputeProfitAndLoss(txs), nil
}

func (s *Service) BalanceSheet(ctx context.Context, year int) (*financedomain.BalanceSheet, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return ComputeBalanceSheet(txs), nil
}

func (s *Service) CashFlow(ctx context.Context, year int) (*financedomain.CashFlow, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return ComputeCashFlow(txs), nil
}

func (s *Service) RevenueJournal(ctx context.Context, year int) ([]financedomain.JournalRow, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return BuildRevenueJournal(txs), nil
}

func (s *Service) IncomeJournal(ctx context.Context, year int) ([]financedomain.JournalRow, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return BuildManualJournal(txs, ledgerdomain.TypeOtherIncome, ledgerdomain.TypeCapital), nil
}

func (s *Service) ExpenseJournal(ctx context.Context, year int) ([]financedomain.JournalRow, error) {
	txs, err := s.ledgerSvc.Snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return BuildManualJournal(txs, ledgerdomain.TypeExpense), nil
}
