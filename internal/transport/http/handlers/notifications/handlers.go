package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/notifications"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
	"lpdp/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *notifications.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Post("/{notificationID}/read", h.handleMarkRead)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Get("/failed-count", h.handleFailedCount)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.ListForUser(r.Context(), scope, principal.UserID, page.Limit, page.Offset)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": items}, requestID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	count, err := h.Service.CountUnread(r.Context(), scope, principal.UserID)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"unread": count}, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	if err := h.Service.MarkRead(r.Context(), scope, principal.UserID, chi.URLParam(r, "notificationID")); err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"read": true}, requestID)
}

func (h *Handler) handleFailedCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	count, err := h.Service.CountFailed(r.Context(), scope)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"failed": count}, requestID)
}
