package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	id "residentportal/pkg/domain"
	"residentportal/pkg/requestcontext"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubValidator struct {
	claims *ResidentClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*ResidentClaims, error) {
	return s.claims, s.err
}

func echoResident(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(requestcontext.ResidentID(r.Context()).String() + "|" + requestcontext.Actor(r.Context())))
}

func TestRequireResident(t *testing.T) {
	rid := id.ResidentID(uuid.New())

	t.Run("missing header", func(t *testing.T) {
		h := RequireResident(stubValidator{}, discard)(http.HandlerFunc(echoResident))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		h := RequireResident(stubValidator{err: errors.New("bad")}, discard)(http.HandlerFunc(echoResident))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets resident", func(t *testing.T) {
		h := RequireResident(stubValidator{claims: &ResidentClaims{ResidentID: rid}}, discard)(http.HandlerFunc(echoResident))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, rid.String()+"|resident", w.Body.String())
	})
}

func TestRequireAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	h := RequireAdminToken(hash, discard)(http.HandlerFunc(echoResident))

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Admin-Token", "guess")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("named admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Admin-Token", "s3cret")
		req.Header.Set("X-Admin-Name", "kagawad.reyes")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "|kagawad.reyes")
	})
}

func TestRequestIDAndRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := RequestID(Recovery(discard)(panicky))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
