package taskhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/audit"
	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tasks"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
	"lpdp/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *tasks.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/{taskID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTasksReview, h.Perms)).Post("/{taskID}/status", h.handleMove)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := tasks.Filter{
		RecordID: r.URL.Query().Get("recordId"),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	items, total, err := h.Service.List(r.Context(), scope, filter, page.Limit, page.Offset)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": items, "total": total}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	task, err := h.Service.Get(r.Context(), scope, chi.URLParam(r, "taskID"))
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, task, requestID)
}

type moveRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	v.Enum("status", payload.Status,
		[]string{tasks.StatusPending, tasks.StatusInReview, tasks.StatusCompleted, tasks.StatusCancelled},
		"unknown task status")
	if v.Reject(w, requestID) {
		return
	}

	taskID := chi.URLParam(r, "taskID")
	task, err := h.Service.Move(r.Context(), scope, principal, taskID, payload.Status)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}

	if h.Audit != nil {
		err := h.Audit.Record(r.Context(), scope, principal.UserID, audit.ActionTaskMove, "compliance_task", taskID,
			requestID, middleware.ClientIP(r), nil, map[string]any{"status": task.Status})
		if err != nil {
			slog.Warn("audit record failed", "action", audit.ActionTaskMove, "taskId", taskID, "err", err)
		}
	}
	api.Success(w, task, requestID)
}
