package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"residentportal/internal/platform/middleware"
	"residentportal/internal/report"
	"residentportal/pkg/platform/httputil"
	"residentportal/pkg/requestcontext"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Service interface {
	StatusCounters(ctx context.Context) (*report.StatusCounters, error)
	Population(ctx context.Context) (*report.PopulationSummary, error)
	ExportPopulation(ctx context.Context) ([]byte, error)
}

type Handler struct {
	service        Service
	logger         *slog.Logger
	adminTokenHash []byte
}

func New(svc Service, logger *slog.Logger, adminTokenHash []byte) *Handler {
	return &Handler{service: svc, logger: logger, adminTokenHash: adminTokenHash}
}

// Register mounts the dashboard report routes behind the administrator token.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/reports", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(h.adminTokenHash, h.logger))
		r.Get("/status", h.HandleStatusCounters)
		r.Get("/population", h.HandlePopulation)
		r.Get("/population.xlsx", h.HandleExportPopulation)
	})
}

func (h *Handler) HandleStatusCounters(w http.ResponseWriter, r *http.Request) {
	counters, err := h.service.StatusCounters(r.Context())
	if err != nil {
		h.fail(w, r, "status_counters", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counters)
}

func (h *Handler) HandlePopulation(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Population(r.Context())
	if err != nil {
		h.fail(w, r, "population", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleExportPopulation(w http.ResponseWriter, r *http.Request) {
	raw, err := h.service.ExportPopulation(r.Context())
	if err != nil {
		h.fail(w, r, "export_population", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="population.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, "report failed",
		"op", op,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
