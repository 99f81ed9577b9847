package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"residentportal/internal/platform/middleware"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/service"
	"residentportal/internal/profile/wizard"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/httputil"
	"residentportal/pkg/requestcontext"
)

// Service is the intake session surface the HTTP layer drives.
type Service interface {
	Open(ctx context.Context, residentID id.ResidentID) (*service.View, error)
	View(ctx context.Context, residentID id.ResidentID) (*service.View, error)
	Advance(ctx context.Context, residentID id.ResidentID, in wizard.StepInput) (*service.View, error)
	Retreat(ctx context.Context, residentID id.ResidentID) (*service.View, error)
	DeclareComposition(ctx context.Context, residentID id.ResidentID, childrenCount, otherCount int) (*service.View, error)
	SelectTab(ctx context.Context, residentID id.ResidentID, tab wizard.Tab) (*service.View, error)
	Submit(ctx context.Context, residentID id.ResidentID) (*service.SubmitResult, error)
	RequestUpdate(ctx context.Context, residentID id.ResidentID, reason string) (*models.StatusRecord, error)
	Close(ctx context.Context, residentID id.ResidentID)
}

// Handler serves the resident intake endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates a profile intake Handler.
func New(svc Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{service: svc, logger: logger, validator: validator}
}

// Register mounts the intake routes behind resident authentication.
func (h *Handler) Register(r chi.Router) {
	r.Route("/intake", func(r chi.Router) {
		r.Use(middleware.RequireResident(h.validator, h.logger))
		r.Post("/session", h.HandleOpen)
		r.Get("/session", h.HandleView)
		r.Delete("/session", h.HandleClose)
		r.Post("/steps/{step}", h.HandleAdvance)
		r.Post("/retreat", h.HandleRetreat)
		r.Put("/composition", h.HandleDeclareComposition)
		r.Put("/tab", h.HandleSelectTab)
		r.Post("/submit", h.HandleSubmit)
		r.Post("/update-request", h.HandleRequestUpdate)
	})
}

func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, "open", func(ctx context.Context, rid id.ResidentID) (*service.View, error) {
		return h.service.Open(ctx, rid)
	})
}

func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, "view", h.service.View)
}

func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, "retreat", h.service.Retreat)
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.service.Close(r.Context(), requestcontext.ResidentID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// HandleAdvance decodes the body into the input type of the step named in
// the path and advances the wizard with it.
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	in, err := decodeStepInput(r, wizard.Step(chi.URLParam(r, "step")))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid step input",
			"request_id", requestID,
			"step", chi.URLParam(r, "step"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.respondView(w, r, "advance", func(ctx context.Context, rid id.ResidentID) (*service.View, error) {
		return h.service.Advance(ctx, rid, in)
	})
}

func (h *Handler) HandleDeclareComposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[DeclareCompositionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondView(w, r, "declare_composition", func(ctx context.Context, rid id.ResidentID) (*service.View, error) {
		return h.service.DeclareComposition(ctx, rid, req.ChildrenCount, req.OtherMembersCount)
	})
}

func (h *Handler) HandleSelectTab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SelectTabRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondView(w, r, "select_tab", func(ctx context.Context, rid id.ResidentID) (*service.View, error) {
		return h.service.SelectTab(ctx, rid, req.Tab)
	})
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := requestcontext.ResidentID(ctx)

	res, err := h.service.Submit(ctx, rid)
	if err != nil {
		h.logFailure(ctx, "submit", rid, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleRequestUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := requestcontext.ResidentID(ctx)
	req, ok := httputil.DecodeAndPrepare[RequestUpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	status, err := h.service.RequestUpdate(ctx, rid, req.Reason)
	if err != nil {
		h.logFailure(ctx, "request_update", rid, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, id.ResidentID) (*service.View, error)) {
	ctx := r.Context()
	rid := requestcontext.ResidentID(ctx)

	view, err := fn(ctx, rid)
	if err != nil {
		h.logFailure(ctx, op, rid, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) logFailure(ctx context.Context, op string, rid id.ResidentID, err error) {
	attrs := []any{
		"op", op,
		"request_id", requestcontext.RequestID(ctx),
		"resident_id", rid.String(),
		"error", err,
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, "intake request failed", attrs...)
	default:
		h.logger.WarnContext(ctx, "intake request rejected", attrs...)
	}
}
