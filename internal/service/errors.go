package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
	"github.com/mohitkumarrajbadi/Splitzy/internal/calculator"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
)

// MaxParticipants is the largest roster a ledger may have.
const MaxParticipants = 5

var (
	ErrWrongLedger    = errors.New("session is not valid for this ledger")
	ErrRosterFull     = errors.New("ledger already has the maximum number of participants")
	ErrDuplicateSplit = errors.New("participant appears in more than one split")
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrNothingToSettle), errors.Is(err, ErrRosterFull):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, ErrWrongLedger):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrWeakPasscode),
		errors.Is(err, auth.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrSplitMismatch),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, ErrDuplicateSplit):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(err error) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}
