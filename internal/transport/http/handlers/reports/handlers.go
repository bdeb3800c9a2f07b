package reportshandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/audit"
	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/reports"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
	"lpdp/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/register", h.handleRegister)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	dashboard, err := h.Service.Dashboard(r.Context(), scope)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}

// handleRegister streams the activity register in csv, xlsx or pdf. Every
// export is audited; the register leaving the system is itself an event a
// regulator may ask about.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "csv", "xlsx", "pdf":
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be csv, xlsx or pdf", requestID)
		return
	}
	if format == "" {
		format = "csv"
	}

	data, contentType, err := h.Service.Register(r.Context(), scope, format)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}

	if h.Audit != nil {
		err := h.Audit.Record(r.Context(), scope, principal.UserID, audit.ActionExport, "register", format,
			requestID, middleware.ClientIP(r), nil, map[string]any{"format": format})
		if err != nil {
			slog.Warn("audit record failed", "action", audit.ActionExport, "err", err)
		}
	}

	filename := "registro-actividades-" + time.Now().UTC().Format("20060102") + "." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(data); err != nil {
		slog.Warn("register export write failed", "err", err)
	}
}
