package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/httputil"
	"residentportal/pkg/requestcontext"
)

// ActorResident labels requests made by residents on their own profile.
const ActorResident = "resident"

// TokenValidator validates resident bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*ResidentClaims, error)
}

// ResidentClaims are the fields the middleware needs from a validated token.
type ResidentClaims struct {
	ResidentID id.ResidentID
	Name       string
	TokenID    string
}

// RequireResident rejects requests without a valid bearer token and puts the
// resident ID into the request context.
func RequireResident(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithResidentID(ctx, claims.ResidentID)
			ctx = requestcontext.WithActor(ctx, ActorResident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
