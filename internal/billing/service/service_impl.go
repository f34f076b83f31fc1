package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	"github.com/tirtalabs/tirta/internal/billing/repository"
	"github.com/tirtalabs/tirta/internal/clock"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	ledgerrepo "github.com/tirtalabs/tirta/internal/ledger/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BillingCategory labels every ledger row produced by a bill payment.
const BillingCategory = "BILLING"

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  billingdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billing.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.NewRepository(p.DB),
	}
}

// MarkPaid transitions an unpaid bill to PAID and records the matching
// REVENUE ledger row. Both writes share one database transaction; the bill
// row is locked first so a concurrent payment observes PAID and fails with
// a conflict instead of double-posting revenue.
func (s *Service) MarkPaid(ctx context.Context, req billingdomain.PayRequest) (*billingdomain.PayResponse, error) {
	billID, err := parseID(req.BillID)
	if err != nil {
		return nil, billingdomain.ErrInvalidBillID
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, billingdomain.ErrInvalidPaymentMethod
	}

	now := s.clock.Now(ctx)

	var resp billingdomain.PayResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)

		bill, err := repoTx.FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return billingdomain.ErrBillNotFound
		}
		if bill.Status == billingdomain.StatusPaid {
			return billingdomain.ErrBillAlreadyPaid
		}

		billCtx, err := repoTx.GetBillContext(ctx, billID)
		if err != nil {
			return err
		}
		if billCtx == nil {
			return billingdomain.ErrBillNotFound
		}

		receipt := uuid.NewString()
		bill.Status = billingdomain.StatusPaid
		bill.PaidAt = &now
		bill.PaymentMethod = &method
		bill.ReceiptNumber = &receipt
		if err := repoTx.Update(ctx, bill); err != nil {
			return err
		}

		month := billCtx.PeriodMonth
		year := billCtx.PeriodYear
		entry := &ledgerdomain.Transaction{
			ID:          s.genID.Generate(),
			Type:        ledgerdomain.TypeRevenue,
			Amount:      bill.Amount,
			Category:    BillingCategory,
			Description: fmt.Sprintf("Bill payment %s (%d/%d)", billCtx.CustomerName, month, year),
			Date:        now,
			ReferenceID: &bill.ID,
			PeriodMonth: &month,
			PeriodYear:  &year,
		}
		if err := ledgerrepo.NewRepository(tx).Insert(ctx, entry); err != nil {
			return err
		}

		resp.Bill = bill
		resp.Transaction = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill paid",
		zap.String("bill_id", billID.String()),
		zap.String("method", method),
	)
	return &resp, nil
}

// MarkUnpaid reverses a payment: the bill returns to UNPAID and every
// revenue row referencing it is retracted, atomically.
func (s *Service) MarkUnpaid(ctx context.Context, rawID string) (*billingdomain.Bill, error) {
	billID, err := parseID(rawID)
	if err != nil {
		return nil, billingdomain.ErrInvalidBillID
	}

	var out *billingdomain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)

		bill, err := repoTx.FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return billingdomain.ErrBillNotFound
		}
		if bill.Status != billingdomain.StatusPaid {
			return billingdomain.ErrBillNotPaid
		}

		bill.Status = billingdomain.StatusUnpaid
		bill.PaidAt = nil
		bill.PaymentMethod = nil
		bill.ReceiptNumber = nil
		if err := repoTx.Update(ctx, bill); err != nil {
			return err
		}

		if err := ledgerrepo.NewRepository(tx).DeleteByReference(ctx, billID); err != nil {
			return err
		}

		out = bill
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill payment reversed", zap.String("bill_id", billID.String()))
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*billingdomain.BillView, error) {
	billID, err := parseID(rawID)
	if err != nil {
		return nil, billingdomain.ErrInvalidBillID
	}

	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billingdomain.ErrBillNotFound
	}

	billCtx, err := s.repo.GetBillContext(ctx, billID)
	if err != nil {
		return nil, err
	}

	view := &billingdomain.BillView{
		Bill:          *bill,
		DisplayStatus: bill.DisplayStatus(s.clock.Now(ctx)),
	}
	if billCtx != nil {
		view.CustomerName = billCtx.CustomerName
		view.PeriodMonth = billCtx.PeriodMonth
		view.PeriodYear = billCtx.PeriodYear
	}
	return view, nil
}

func (s *Service) List(ctx context.Context, req billingdomain.ListRequest) (billingdomain.ListResponse, error) {
	now := s.clock.Now(ctx)

	// OVERDUE is a view over unpaid bills; the repository only knows the
	// persisted statuses.
	wantOverdue := req.Status == billingdomain.StatusOverdue
	if wantOverdue {
		req.Status = billingdomain.StatusUnpaid
	}

	views, total, err := s.repo.List(ctx, req)
	if err != nil {
		return billingdomain.ListResponse{}, err
	}

	out := make([]billingdomain.BillView, 0, len(views))
	for i := range views {
		views[i].DisplayStatus = views[i].Bill.DisplayStatus(now)
		if wantOverdue && views[i].DisplayStatus != billingdomain.StatusOverdue {
			continue
		}
		out = append(out, views[i])
	}
	if wantOverdue {
		total = int64(len(out))
	}

	return billingdomain.ListResponse{
		Bills:    out,
		PageInfo: req.Pagination.PageInfo(total),
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
