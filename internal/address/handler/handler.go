package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"residentportal/internal/address"
	"residentportal/internal/profile/models"
	"residentportal/pkg/platform/httputil"
	"residentportal/pkg/requestcontext"
)

// Service is the reference address lookup surface.
type Service interface {
	Regions(ctx context.Context) ([]address.Place, error)
	ProvincesOf(ctx context.Context, regionCode string) ([]address.Place, error)
	CitiesOf(ctx context.Context, provinceCode string) ([]address.Place, error)
	BarangaysOf(ctx context.Context, cityCode string) ([]address.Place, error)
	ResolveNames(ctx context.Context, addr models.Address) (*address.Resolved, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the read-only address lookup routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/address", func(r chi.Router) {
		r.Get("/regions", h.list(func(ctx context.Context, _ string) ([]address.Place, error) {
			return h.service.Regions(ctx)
		}))
		r.Get("/regions/{code}/provinces", h.list(h.service.ProvincesOf))
		r.Get("/provinces/{code}/cities", h.list(h.service.CitiesOf))
		r.Get("/cities/{code}/barangays", h.list(h.service.BarangaysOf))
		r.Get("/resolve", h.HandleResolve)
	})
}

func (h *Handler) list(fn func(context.Context, string) ([]address.Place, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		places, err := fn(ctx, chi.URLParam(r, "code"))
		if err != nil {
			h.logger.WarnContext(ctx, "address lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		if places == nil {
			places = []address.Place{}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"places": places})
	}
}

// HandleResolve maps ?region=&province=&city=&barangay= codes to names.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resolved, err := h.service.ResolveNames(r.Context(), models.Address{
		Region:   q.Get("region"),
		Province: q.Get("province"),
		City:     q.Get("city"),
		Barangay: q.Get("barangay"),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"address": resolved,
		"label":   resolved.Label(),
	})
}
