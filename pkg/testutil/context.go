package testutil

import (
	"net/http"

	id "residentportal/pkg/domain"
	"residentportal/pkg/requestcontext"
)

// WithResidentID adds a resident ID to the request context, as the auth
// middleware would. Invalid IDs are silently ignored.
func WithResidentID(req *http.Request, residentID string) *http.Request {
	if parsed, err := id.ParseResidentID(residentID); err == nil {
		return req.WithContext(requestcontext.WithResidentID(req.Context(), parsed))
	}
	return req
}

// WithActor marks the request as coming from the given principal.
func WithActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
