package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"residentportal/internal/audit"
	"residentportal/internal/platform/middleware"
	"residentportal/internal/profile/models"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/httputil"
	platformstrings "residentportal/pkg/platform/strings"
	"residentportal/pkg/requestcontext"
)

// Service is the administrator review surface.
type Service interface {
	ListPending(ctx context.Context) ([]models.ResidentRecord, error)
	ListByStatus(ctx context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error)
	Get(ctx context.Context, residentID id.ResidentID) (*models.ResidentRecord, error)
	History(ctx context.Context, residentID id.ResidentID) ([]audit.Event, error)
	Approve(ctx context.Context, residentID id.ResidentID) (*models.StatusRecord, error)
	Reject(ctx context.Context, residentID id.ResidentID, reason string) (*models.StatusRecord, error)
	RequireUpdate(ctx context.Context, residentID id.ResidentID, reason string) (*models.StatusRecord, error)
}

// Handler serves the administrator review endpoints.
type Handler struct {
	service        Service
	logger         *slog.Logger
	adminTokenHash []byte
}

func New(svc Service, logger *slog.Logger, adminTokenHash []byte) *Handler {
	return &Handler{service: svc, logger: logger, adminTokenHash: adminTokenHash}
}

// Register mounts the review routes behind the administrator token.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/profiles", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(h.adminTokenHash, h.logger))
		r.Get("/", h.HandleList)
		r.Get("/{residentID}", h.HandleGet)
		r.Get("/{residentID}/audit", h.HandleHistory)
		r.Post("/{residentID}/approve", h.HandleApprove)
		r.Post("/{residentID}/reject", h.HandleReject)
		r.Post("/{residentID}/require-update", h.HandleRequireUpdate)
	})
}

type listResponse struct {
	Profiles []models.ResidentRecord `json:"profiles"`
	Total    int                     `json:"total"`
}

// HandleList lists pending profiles, or those named by ?status=a,b.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		records []models.ResidentRecord
		err     error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		statuses, perr := parseStatuses(raw)
		if perr != nil {
			httputil.WriteError(w, perr)
			return
		}
		records, err = h.service.ListByStatus(ctx, statuses...)
	} else {
		records, err = h.service.ListPending(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list profiles",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []models.ResidentRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Profiles: records, Total: len(records)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rid, ok := h.residentID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), rid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	rid, ok := h.residentID(w, r)
	if !ok {
		return
	}
	events, err := h.service.History(r.Context(), rid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	rid, ok := h.residentID(w, r)
	if !ok {
		return
	}
	h.respondDecision(w, r, rid, "approve", func(ctx context.Context) (*models.StatusRecord, error) {
		return h.service.Approve(ctx, rid)
	})
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleWithReason(w, r, "reject", h.service.Reject)
}

func (h *Handler) HandleRequireUpdate(w http.ResponseWriter, r *http.Request) {
	h.handleWithReason(w, r, "require_update", h.service.RequireUpdate)
}

func (h *Handler) handleWithReason(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, id.ResidentID, string) (*models.StatusRecord, error)) {
	rid, ok := h.residentID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[DecisionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondDecision(w, r, rid, op, func(ctx context.Context) (*models.StatusRecord, error) {
		return fn(ctx, rid, req.Reason)
	})
}

func (h *Handler) respondDecision(w http.ResponseWriter, r *http.Request, rid id.ResidentID, op string, fn func(context.Context) (*models.StatusRecord, error)) {
	ctx := r.Context()
	rec, err := fn(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "review decision failed",
			"op", op,
			"resident_id", rid.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) residentID(w http.ResponseWriter, r *http.Request) (id.ResidentID, bool) {
	rid, err := id.ParseResidentID(chi.URLParam(r, "residentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ResidentID{}, false
	}
	return rid, true
}

// DecisionRequest carries the reason for a rejection or update demand.
type DecisionRequest struct {
	Reason string `json:"reason"`
}

func (d *DecisionRequest) Validate() error {
	d.Reason = strings.TrimSpace(d.Reason)
	if d.Reason == "" {
		return dErrors.NewField(dErrors.CodeValidation, "reason", "is required")
	}
	return nil
}

func parseStatuses(raw string) ([]models.ProfileStatus, error) {
	var out []models.ProfileStatus
	for _, name := range platformstrings.SplitList(raw) {
		status, ok := models.ParseProfileStatus(name)
		if !ok {
			return nil, dErrors.NewField(dErrors.CodeBadRequest, "status", "unknown status "+name)
		}
		out = append(out, status)
	}
	return out, nil
}
