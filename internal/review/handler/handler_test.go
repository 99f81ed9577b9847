package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"residentportal/internal/audit"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/store"
	review "residentportal/internal/review/service"
	id "residentportal/pkg/domain"
	"residentportal/pkg/testutil"
)

const adminToken = "desk-token"

type fixture struct {
	router chi.Router
	store  *store.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)

	st := store.NewMemory()
	trail := audit.NewInMemoryStore()
	svc := review.New(st, review.WithAuditPublisher(audit.NewPublisher(trail)), review.WithAuditReader(trail))
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), hash).Register(r)
	return &fixture{router: r, store: st}
}

func (f *fixture) seed(t *testing.T, status models.ProfileStatus) id.ResidentID {
	t.Helper()
	rid := id.ResidentID(uuid.New())
	require.NoError(t, f.store.UpsertStatus(context.Background(), rid, models.StatusRecord{Status: status, UpdatedAt: time.Now()}))
	return rid
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	return testutil.Do(f.router, testutil.WithAdminToken(req, adminToken))
}

func TestReviewRequiresAdminToken(t *testing.T) {
	f := newFixture(t)
	w := testutil.Do(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/admin/profiles/", nil))
	testutil.AssertError(t, w, http.StatusUnauthorized, "unauthorized", "")
}

func TestListPendingAndByStatus(t *testing.T) {
	f := newFixture(t)
	f.seed(t, models.StatusPendingInitialReview)
	f.seed(t, models.StatusApproved)

	w := f.do(t, http.MethodGet, "/admin/profiles/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, testutil.DecodeResponse[listResponse](t, w).Total)

	w = f.do(t, http.MethodGet, "/admin/profiles/?status=approved,pending_initial_review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, testutil.DecodeResponse[listResponse](t, w).Total)

	w = f.do(t, http.MethodGet, "/admin/profiles/?status=lost", nil)
	testutil.AssertError(t, w, http.StatusBadRequest, "bad_request", "status")
}

func TestApproveThenHistory(t *testing.T) {
	f := newFixture(t)
	rid := f.seed(t, models.StatusPendingInitialReview)

	w := f.do(t, http.MethodPost, "/admin/profiles/"+rid.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)

	w = f.do(t, http.MethodGet, "/admin/profiles/"+rid.String()+"/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"profile_status_changed"`)

	w = f.do(t, http.MethodPost, "/admin/profiles/"+rid.String()+"/approve", nil)
	testutil.AssertError(t, w, http.StatusConflict, "conflict", "")
}

func TestRejectNeedsReason(t *testing.T) {
	f := newFixture(t)
	rid := f.seed(t, models.StatusPendingInitialReview)

	w := f.do(t, http.MethodPost, "/admin/profiles/"+rid.String()+"/reject", DecisionRequest{})
	testutil.AssertError(t, w, http.StatusUnprocessableEntity, "validation_error", "reason")

	w = f.do(t, http.MethodPost, "/admin/profiles/"+rid.String()+"/reject", DecisionRequest{Reason: "not a resident"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"rejected"`)
}

func TestGetUnknownAndMalformedResident(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/admin/profiles/"+uuid.NewString(), nil)
	testutil.AssertError(t, w, http.StatusNotFound, "not_found", "")

	w = f.do(t, http.MethodGet, "/admin/profiles/not-a-uuid", nil)
	testutil.AssertError(t, w, http.StatusBadRequest, "invalid_input", "")
}
