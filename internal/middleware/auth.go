package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/internal/auth"
	"github.com/mmynk/sharedledger/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ParticipantKey is the context key for the authenticated participant.
const ParticipantKey contextKey = "participant"

// GetParticipant extracts the authenticated participant from the context.
// Returns the empty Participant if the request is anonymous.
func GetParticipant(ctx context.Context) models.Participant {
	p, _ := ctx.Value(ParticipantKey).(models.Participant)
	return p
}

// WithParticipant returns a copy of ctx carrying p.
func WithParticipant(ctx context.Context, p models.Participant) context.Context {
	return context.WithValue(ctx, ParticipantKey, p)
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth returns an interceptor that validates the bearer token and adds
// the participant it names to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithParticipant(ctx, claims.Participant), req)
		}
	}
}
