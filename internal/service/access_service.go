package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
)

// Ensure AccessService implements the handler interface
var _ rpc.AccessServiceHandler = (*AccessService)(nil)

// AccessService implements the AccessService RPC interface.
type AccessService struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	validator     *validation.Validator
	metrics       *Metrics
	logger        *slog.Logger
}

// NewAccessService creates a new access service.
func NewAccessService(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager,
	validator *validation.Validator, metrics *Metrics, logger *slog.Logger) *AccessService {
	return &AccessService{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		validator:     validator,
		metrics:       metrics,
		logger:        logger,
	}
}

// CreateLedger creates a ledger with its initial roster and returns a session
// for the first participant.
func (s *AccessService) CreateLedger(ctx context.Context, req *connect.Request[rpc.CreateLedgerRequest]) (*connect.Response[rpc.CreateLedgerResponse], error) {
	s.logger.Info("CreateLedger request", "name", req.Msg.Name, "participants_count", len(req.Msg.Participants))

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	hash, err := s.authenticator.Hash(req.Msg.Passcode)
	if err != nil {
		return nil, toConnectError(err)
	}

	ledger := &models.Ledger{
		Name:         req.Msg.Name,
		PasscodeHash: hash,
	}
	for _, p := range req.Msg.Participants {
		ledger.Participants = append(ledger.Participants, models.Participant{
			DisplayName: p.DisplayName,
			Icon:        p.Icon,
		})
	}

	if err := s.store.CreateLedger(ctx, ledger); err != nil {
		s.logger.Error("CreateLedger failed", "error", err)
		return nil, toConnectError(err)
	}

	creator := ledger.Participants[0].ID
	token, err := s.jwtManager.Generate(ledger.ID, creator)
	if err != nil {
		s.logger.Error("Failed to generate token", "ledger_id", ledger.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.metrics.LedgerCreated()
	s.logger.Info("Ledger created", "ledger_id", ledger.ID, "protected", hash != "")

	return connect.NewResponse(&rpc.CreateLedgerResponse{
		Ledger:        rpc.FromLedger(ledger),
		ParticipantID: creator,
		Token:         token,
	}), nil
}

// OpenLedger verifies the ledger passcode and issues a session for one of its participants.
func (s *AccessService) OpenLedger(ctx context.Context, req *connect.Request[rpc.OpenLedgerRequest]) (*connect.Response[rpc.OpenLedgerResponse], error) {
	s.logger.Info("OpenLedger request", "ledger_id", req.Msg.LedgerID, "participant_id", req.Msg.ParticipantID)

	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	ledger, err := s.store.GetLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		s.logger.Warn("OpenLedger failed", "ledger_id", req.Msg.LedgerID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.authenticator.Authenticate(ledger, req.Msg.Passcode); err != nil {
		s.logger.Warn("OpenLedger rejected", "ledger_id", ledger.ID, "error", err)
		return nil, toConnectError(err)
	}

	if !ledger.HasParticipant(req.Msg.ParticipantID) {
		return nil, toConnectError(auth.ErrUnknownParticipant)
	}

	token, err := s.jwtManager.Generate(ledger.ID, req.Msg.ParticipantID)
	if err != nil {
		s.logger.Error("Failed to generate token", "ledger_id", ledger.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Ledger opened", "ledger_id", ledger.ID, "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&rpc.OpenLedgerResponse{
		Ledger: rpc.FromLedger(ledger),
		Token:  token,
	}), nil
}
