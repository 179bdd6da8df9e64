package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs every RPC through the default slog logger.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return NewLoggingInterceptor(nil)
}

// NewLoggingInterceptor logs one line per RPC with the method, result code,
// calling participant and duration. A nil logger means slog.Default().
//
// The level follows the result code: successes at Info, caller mistakes
// (bad input, unknown expense, auth) at Warn, and everything else at Error.
func NewLoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			log := logger
			if log == nil {
				log = slog.Default()
			}
			code := resultCode(err)
			attrs := []slog.Attr{
				slog.String("method", methodName(req.Spec().Procedure)),
				slog.String("code", code),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if p := GetParticipant(ctx); p != "" {
				attrs = append(attrs, slog.String("participant", p.String()))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", errorMessage(err)))
			}
			log.LogAttrs(ctx, logLevel(err), "rpc "+code, attrs...)

			return resp, err
		}
	}
}

// resultCode is "ok" on success and the Connect code name otherwise.
func resultCode(err error) string {
	if err == nil {
		return "ok"
	}
	return connect.CodeOf(err).String()
}

func logLevel(err error) slog.Level {
	if err == nil {
		return slog.LevelInfo
	}
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodePermissionDenied,
		connect.CodeUnauthenticated, connect.CodeFailedPrecondition, connect.CodeCanceled,
		connect.CodeUnimplemented:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}

// methodName trims "/ledger.v1.ExpenseService/AddExpense" to "AddExpense".
func methodName(procedure string) string {
	if i := strings.LastIndexByte(procedure, '/'); i >= 0 {
		return procedure[i+1:]
	}
	return procedure
}
