package tenanthandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/audit"
	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
	"lpdp/internal/transport/http/shared"
)

type Handler struct {
	Store        *tenant.Store
	Perms        middleware.PermissionStore
	Audit        *audit.Service
	DefaultQuota int
}

func NewHandler(store *tenant.Store, perms middleware.PermissionStore, auditSvc *audit.Service, defaultQuota int) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc, DefaultQuota: defaultQuota}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tenants", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTenantsRead, h.Perms)).Get("/current", h.handleCurrent)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/", h.handleOnboard)
		r.With(middleware.RequirePermission(auth.PermTenantsManage, h.Perms)).Put("/current/industry", h.handleUpdateIndustry)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/{tenantID}/deactivate", h.handleDeactivate)
	})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	t, err := h.Store.Get(r.Context(), scope)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, t, requestID)
}

type onboardRequest struct {
	Name       string `json:"name"`
	Industry   string `json:"industry"`
	MaxRecords int    `json:"maxRecords"`
}

// handleOnboard provisions a new tenant. Platform operators only; the new
// tenant starts empty and active with the default record quota.
func (h *Handler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "tenant name is required")
	if v.Reject(w, requestID) {
		return
	}
	if payload.MaxRecords <= 0 {
		payload.MaxRecords = h.DefaultQuota
	}

	id, err := h.Store.Create(r.Context(), strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Industry), payload.MaxRecords)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}

	if h.Audit != nil {
		scope := tenant.ScopeFor(id)
		err := h.Audit.Record(r.Context(), scope, principal.UserID, audit.ActionOnboard, "tenant", id,
			requestID, middleware.ClientIP(r), nil, payload)
		if err != nil {
			slog.Warn("audit record failed", "action", audit.ActionOnboard, "tenantId", id, "err", err)
		}
	}
	api.Created(w, map[string]any{"id": id}, requestID)
}

type industryRequest struct {
	Industry string `json:"industry"`
}

func (h *Handler) handleUpdateIndustry(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	var payload industryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	if err := h.Store.UpdateIndustry(r.Context(), scope, strings.TrimSpace(payload.Industry)); err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}

	if h.Audit != nil {
		err := h.Audit.Record(r.Context(), scope, principal.UserID, audit.ActionUpdate, "tenant", scope.TenantID(),
			requestID, middleware.ClientIP(r), nil, payload)
		if err != nil {
			slog.Warn("audit record failed", "action", audit.ActionUpdate, "err", err)
		}
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

// handleDeactivate soft-disables a tenant. Its records stay in place; all
// write paths reject while inactive.
func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	tenantID := chi.URLParam(r, "tenantID")
	scope := tenant.ScopeFor(tenantID)
	if err := h.Store.Deactivate(r.Context(), scope); err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}

	if h.Audit != nil {
		err := h.Audit.Record(r.Context(), scope, principal.UserID, audit.ActionDeactivate, "tenant", tenantID,
			requestID, middleware.ClientIP(r), nil, nil)
		if err != nil {
			slog.Warn("audit record failed", "action", audit.ActionDeactivate, "err", err)
		}
	}
	api.Success(w, map[string]any{"deactivated": true}, requestID)
}
