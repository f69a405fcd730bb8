package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, session identity, duration, and any error codes/messages.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			// Session values are only present once RequireAuth has run.
			attrs := []any{
				"procedure", req.Spec().Procedure,
				"ledger_id", GetLedgerID(ctx),
				"participant_id", GetParticipantID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
					logger.WarnContext(ctx, "RPC error", append(attrs, "code", connectErr.Code().String(), "error", connectErr.Message())...)
				} else {
					logger.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
				}
			} else {
				logger.InfoContext(ctx, "RPC ok", attrs...)
			}

			return resp, err
		}
	}
}
