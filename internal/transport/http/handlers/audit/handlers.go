package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/audit"
	"lpdp/internal/domain/auth"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
	"lpdp/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorUser:  r.URL.Query().Get("actor"),
	}
	includeDetails := r.URL.Query().Get("details") == "true"

	total, err := h.Service.Count(r.Context(), scope, filter)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	events, err := h.Service.List(r.Context(), scope, filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": events, "total": total}, requestID)
}
