package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/httputil"
	"residentportal/pkg/requestcontext"
)

const (
	headerAdminToken = "X-Admin-Token"
	headerAdminName  = "X-Admin-Name"
	defaultAdminName = "admin"
)

// RequireAdminToken admits requests whose X-Admin-Token matches the bcrypt
// hash. X-Admin-Name, when present, becomes the actor recorded on decisions.
func RequireAdminToken(tokenHash []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(headerAdminToken)
			if token == "" || len(tokenHash) == 0 || bcrypt.CompareHashAndPassword(tokenHash, []byte(token)) != nil {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			actor := strings.TrimSpace(r.Header.Get(headerAdminName))
			if actor == "" {
				actor = defaultAdminName
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}
