package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
	"github.com/mohitkumarrajbadi/Splitzy/internal/calculator"
	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
)

// Ensure BillService implements the handler interface
var _ rpc.BillServiceHandler = (*BillService)(nil)

// BillService implements the BillService RPC interface.
type BillService struct {
	store     storage.Store
	validator *validation.Validator
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, validator *validation.Validator, metrics *Metrics, logger *slog.Logger) *BillService {
	return &BillService{
		store:     store,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// requireParticipants checks every ID is on the ledger's roster.
func requireParticipants(ledger *models.Ledger, ids ...string) error {
	for _, id := range ids {
		if !ledger.HasParticipant(id) {
			return fmt.Errorf("%w: %s", auth.ErrUnknownParticipant, id)
		}
	}
	return nil
}

// equalSplitAmong divides amount among ids, or the whole roster when ids is empty.
func equalSplitAmong(ledger *models.Ledger, amount decimal.Decimal, ids []string) ([]models.Split, error) {
	if len(ids) == 0 {
		ids = ledger.ParticipantIDs()
	}
	if err := requireParticipants(ledger, ids...); err != nil {
		return nil, err
	}
	return calculator.EqualSplit(amount, ids)
}

// PreviewSplit shows how an amount would be divided equally without recording anything.
func (s *BillService) PreviewSplit(ctx context.Context, req *connect.Request[rpc.PreviewSplitRequest]) (*connect.Response[rpc.PreviewSplitResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	ledger, err := loadLedger(ctx, s.store, req.Msg.LedgerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	splits, err := equalSplitAmong(ledger, req.Msg.Amount, req.Msg.ParticipantIDs)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.PreviewSplitResponse{Splits: rpc.FromSplits(splits)}), nil
}

// CreateBill records a bill. Custom splits must add up to the bill amount.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[rpc.CreateBillRequest]) (*connect.Response[rpc.CreateBillResponse], error) {
	s.logger.Info("CreateBill request",
		"ledger_id", req.Msg.LedgerID,
		"amount", req.Msg.Amount.String(),
		"category", req.Msg.Category,
		"splits_count", len(req.Msg.Splits),
	)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	ledger, err := loadLedger(ctx, s.store, req.Msg.LedgerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := requireParticipants(ledger, req.Msg.PayerID); err != nil {
		return nil, toConnectError(err)
	}

	var splits []models.Split
	if len(req.Msg.Splits) > 0 {
		splits = rpc.ToSplits(req.Msg.Splits)
		if err := checkCustomSplits(ledger, splits); err != nil {
			return nil, toConnectError(err)
		}
		if err := calculator.ValidateSplitTotal(req.Msg.Amount, splits); err != nil {
			return nil, toConnectError(err)
		}
	} else {
		splits, err = equalSplitAmong(ledger, req.Msg.Amount, req.Msg.ParticipantIDs)
		if err != nil {
			return nil, toConnectError(err)
		}
	}

	category, err := models.ParseCategory(req.Msg.Category)
	if err != nil {
		return nil, invalidArgument(err)
	}

	occurredAt := req.Msg.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	bill := &models.Bill{
		LedgerID:   ledger.ID,
		Title:      req.Msg.Title,
		Amount:     req.Msg.Amount,
		Category:   category,
		PayerID:    req.Msg.PayerID,
		OccurredAt: occurredAt,
		Splits:     splits,
		CreatedBy:  middleware.GetParticipantID(ctx),
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		s.logger.Error("CreateBill failed", "ledger_id", ledger.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.BillCreated(bill.Category, bill.Amount)

	s.logger.Info("Bill created", "bill_id", bill.ID, "ledger_id", ledger.ID, "title", bill.Title)
	return connect.NewResponse(&rpc.CreateBillResponse{Bill: rpc.FromBill(bill)}), nil
}

func checkCustomSplits(ledger *models.Ledger, splits []models.Split) error {
	seen := make(map[string]bool, len(splits))
	for _, split := range splits {
		if err := requireParticipants(ledger, split.ParticipantID); err != nil {
			return err
		}
		if seen[split.ParticipantID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSplit, split.ParticipantID)
		}
		seen[split.ParticipantID] = true
	}
	return nil
}

// GetBill retrieves a bill of the session's ledger.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[rpc.GetBillRequest]) (*connect.Response[rpc.GetBillResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	bill, err := loadBill(ctx, s.store, req.Msg.LedgerID, req.Msg.BillID)
	if err != nil {
		s.logger.Warn("GetBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetBillResponse{Bill: rpc.FromBill(bill)}), nil
}

// ListBills lists the ledger's bills, most recent first.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[rpc.ListBillsRequest]) (*connect.Response[rpc.ListBillsResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	if err := authorize(ctx, req.Msg.LedgerID); err != nil {
		return nil, toConnectError(err)
	}

	bills, err := s.store.ListBills(ctx, req.Msg.LedgerID)
	if err != nil {
		s.logger.Error("ListBills failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	if req.Msg.UnsettledOnly {
		unsettled := bills[:0]
		for _, b := range bills {
			if !b.IsSettled {
				unsettled = append(unsettled, b)
			}
		}
		bills = unsettled
	}

	return connect.NewResponse(&rpc.ListBillsResponse{Bills: rpc.FromBills(bills)}), nil
}

// DeleteBill removes a bill from the ledger.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[rpc.DeleteBillRequest]) (*connect.Response[rpc.DeleteBillResponse], error) {
	s.logger.Info("DeleteBill request", "ledger_id", req.Msg.LedgerID, "bill_id", req.Msg.BillID)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	bill, err := loadBill(ctx, s.store, req.Msg.LedgerID, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteBill(ctx, bill.ID); err != nil {
		s.logger.Error("DeleteBill failed", "bill_id", bill.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Bill deleted", "bill_id", bill.ID)
	return connect.NewResponse(&rpc.DeleteBillResponse{}), nil
}

// SetBillSettled settles or reopens a single bill.
func (s *BillService) SetBillSettled(ctx context.Context, req *connect.Request[rpc.SetBillSettledRequest]) (*connect.Response[rpc.SetBillSettledResponse], error) {
	s.logger.Info("SetBillSettled request", "bill_id", req.Msg.BillID, "settled", req.Msg.Settled)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	bill, err := loadBill(ctx, s.store, req.Msg.LedgerID, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.SetBillSettled(ctx, bill.ID, req.Msg.Settled); err != nil {
		s.logger.Error("SetBillSettled failed", "bill_id", bill.ID, "error", err)
		return nil, toConnectError(err)
	}
	bill.IsSettled = req.Msg.Settled

	return connect.NewResponse(&rpc.SetBillSettledResponse{Bill: rpc.FromBill(bill)}), nil
}
