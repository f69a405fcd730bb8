package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// LedgerIDKey is the context key for the ledger the session is scoped to.
	LedgerIDKey contextKey = "ledger_id"
	// ParticipantIDKey is the context key for the participant acting on the ledger.
	ParticipantIDKey contextKey = "participant_id"
)

// GetLedgerID extracts the ledger ID from the context.
// Returns empty string if not found.
func GetLedgerID(ctx context.Context) string {
	ledgerID, _ := ctx.Value(LedgerIDKey).(string)
	return ledgerID
}

// GetParticipantID extracts the acting participant ID from the context.
// Returns empty string if not found.
func GetParticipantID(ctx context.Context) string {
	participantID, _ := ctx.Value(ParticipantIDKey).(string)
	return participantID
}

// WithSession returns a copy of ctx carrying the session identity.
func WithSession(ctx context.Context, ledgerID, participantID string) context.Context {
	ctx = context.WithValue(ctx, LedgerIDKey, ledgerID)
	return context.WithValue(ctx, ParticipantIDKey, participantID)
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the ledger and participant IDs to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithSession(ctx, claims.LedgerID, claims.ParticipantID), req)
		}
	}
}
