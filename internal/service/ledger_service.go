package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mohitkumarrajbadi/Splitzy/internal/cache"
	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
)

// Ensure LedgerService implements the handler interface
var _ rpc.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the LedgerService RPC interface.
type LedgerService struct {
	store     storage.Store
	summaries summaryCache
	validator *validation.Validator
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, c cache.Cache, validator *validation.Validator, metrics *Metrics, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:     store,
		summaries: summaryCache{cache: c, metrics: metrics, logger: logger},
		validator: validator,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// GetLedger retrieves the session's ledger.
func (s *LedgerService) GetLedger(ctx context.Context, req *connect.Request[rpc.GetLedgerRequest]) (*connect.Response[rpc.GetLedgerResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	ledger, err := loadLedger(ctx, s.store, req.Msg.LedgerID)
	if err != nil {
		s.logger.Warn("GetLedger failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetLedgerResponse{Ledger: rpc.FromLedger(ledger)}), nil
}

// RenameLedger changes the ledger's name.
func (s *LedgerService) RenameLedger(ctx context.Context, req *connect.Request[rpc.RenameLedgerRequest]) (*connect.Response[rpc.RenameLedgerResponse], error) {
	s.logger.Info("RenameLedger request", "ledger_id", req.Msg.LedgerID, "name", req.Msg.Name)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	if err := authorize(ctx, req.Msg.LedgerID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RenameLedger(ctx, req.Msg.LedgerID, req.Msg.Name); err != nil {
		s.logger.Error("RenameLedger failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	ledger, err := s.store.GetLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.RenameLedgerResponse{Ledger: rpc.FromLedger(ledger)}), nil
}

// AddParticipant appends a participant to the roster, up to MaxParticipants.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[rpc.AddParticipantRequest]) (*connect.Response[rpc.AddParticipantResponse], error) {
	s.logger.Info("AddParticipant request", "ledger_id", req.Msg.LedgerID, "display_name", req.Msg.DisplayName)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	ledger, err := loadLedger(ctx, s.store, req.Msg.LedgerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if len(ledger.Participants) >= MaxParticipants {
		return nil, toConnectError(ErrRosterFull)
	}

	participant := &models.Participant{DisplayName: req.Msg.DisplayName, Icon: req.Msg.Icon}
	if err := s.store.AddParticipant(ctx, ledger.ID, participant); err != nil {
		s.logger.Error("AddParticipant failed", "ledger_id", ledger.ID, "error", err)
		return nil, toConnectError(err)
	}
	ledger.Participants = append(ledger.Participants, *participant)

	s.logger.Info("Participant added", "ledger_id", ledger.ID, "participant_id", participant.ID)
	return connect.NewResponse(&rpc.AddParticipantResponse{
		Participant: rpc.FromParticipant(*participant),
		Ledger:      rpc.FromLedger(ledger),
	}), nil
}

// RenameParticipant changes a participant's display name.
func (s *LedgerService) RenameParticipant(ctx context.Context, req *connect.Request[rpc.RenameParticipantRequest]) (*connect.Response[rpc.RenameParticipantResponse], error) {
	s.logger.Info("RenameParticipant request", "ledger_id", req.Msg.LedgerID, "participant_id", req.Msg.ParticipantID)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	if err := authorize(ctx, req.Msg.LedgerID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RenameParticipant(ctx, req.Msg.LedgerID, req.Msg.ParticipantID, req.Msg.DisplayName); err != nil {
		s.logger.Warn("RenameParticipant failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	ledger, err := s.store.GetLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.RenameParticipantResponse{Ledger: rpc.FromLedger(ledger)}), nil
}

// GetSummary returns balances, suggested transfers and spending stats for
// the current month, plus the caller's own position.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[rpc.GetSummaryRequest]) (*connect.Response[rpc.GetSummaryResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	if err := authorize(ctx, req.Msg.LedgerID); err != nil {
		return nil, toConnectError(err)
	}

	ledger, err := s.store.GetLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		s.logger.Warn("GetSummary failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	now := s.now()
	summary, ok := s.summaries.load(ctx, ledger, now)
	if !ok {
		bills, err := s.store.ListBills(ctx, ledger.ID)
		if err != nil {
			s.logger.Error("GetSummary failed to list bills", "ledger_id", ledger.ID, "error", err)
			return nil, toConnectError(err)
		}

		summary = BuildSummary(ledger, bills, now)
		s.summaries.store(ctx, ledger, now, summary)
	}

	summary.Caller = CallerSummary(summary, middleware.GetParticipantID(ctx))

	s.logger.Info("GetSummary successful",
		"ledger_id", req.Msg.LedgerID,
		"transfers_count", len(summary.Transfers),
		"cached", ok,
	)
	return connect.NewResponse(summary), nil
}

// SettleAll marks every unsettled bill as settled and records the round.
func (s *LedgerService) SettleAll(ctx context.Context, req *connect.Request[rpc.SettleAllRequest]) (*connect.Response[rpc.SettleAllResponse], error) {
	s.logger.Info("SettleAll request", "ledger_id", req.Msg.LedgerID)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	if err := authorize(ctx, req.Msg.LedgerID); err != nil {
		return nil, toConnectError(err)
	}

	round, err := s.store.SettleAll(ctx, req.Msg.LedgerID, middleware.GetParticipantID(ctx))
	if err != nil {
		s.logger.Warn("SettleAll failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.SettlementRecorded(round.AmountSettled)

	s.logger.Info("Ledger settled",
		"ledger_id", round.LedgerID,
		"bills_settled", round.BillsSettled,
		"amount_settled", round.AmountSettled.StringFixed(2),
	)
	return connect.NewResponse(&rpc.SettleAllResponse{Round: rpc.FromSettlementRound(round)}), nil
}

// ListSettlementRounds returns the ledger's settle-up history, newest first.
func (s *LedgerService) ListSettlementRounds(ctx context.Context, req *connect.Request[rpc.ListSettlementRoundsRequest]) (*connect.Response[rpc.ListSettlementRoundsResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	if err := authorize(ctx, req.Msg.LedgerID); err != nil {
		return nil, toConnectError(err)
	}

	rounds, err := s.store.ListSettlementRounds(ctx, req.Msg.LedgerID)
	if err != nil {
		s.logger.Error("ListSettlementRounds failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]rpc.SettlementRound, len(rounds))
	for i, r := range rounds {
		out[i] = rpc.FromSettlementRound(r)
	}
	return connect.NewResponse(&rpc.ListSettlementRoundsResponse{Rounds: out}), nil
}
