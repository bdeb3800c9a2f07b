package rathandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lpdp/internal/domain/audit"
	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/rat"
	"lpdp/internal/domain/tenant"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
	"lpdp/internal/transport/http/shared"
)

type Handler struct {
	Service *rat.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *rat.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/activities", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermActivitiesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermActivitiesRead, h.Perms)).Get("/{activityID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermActivitiesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermActivitiesWrite, h.Perms)).Put("/{activityID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermActivitiesWrite, h.Perms)).Post("/{activityID}/triage", h.handleTriage)
		r.With(middleware.RequirePermission(auth.PermActivitiesMove, h.Perms)).Post("/{activityID}/transition", h.handleTransition)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, _, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := rat.Filter{
		State: rat.State(r.URL.Query().Get("state")),
		Risk:  rat.RiskLevel(r.URL.Query().Get("risk")),
	}
	records, total, err := h.Service.List(r.Context(), scope, filter, page.Limit, page.Offset)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{
		"items": records,
		"total": total,
	}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.Get(r.Context(), scope, principal, chi.URLParam(r, "activityID"))
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	api.Success(w, rec, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	var payload rat.Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return
	}

	rec, err := h.Service.Create(r.Context(), scope, principal, payload)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	h.logAudit(r, scope, principal, audit.ActionCreate, rec.ID, nil, rec)
	api.Created(w, rec, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	var payload rat.Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.ID = chi.URLParam(r, "activityID")
	if payload.UpdatedAt.IsZero() {
		api.Fail(w, http.StatusBadRequest, "missing_token", "updatedAt concurrency token is required", requestID)
		return
	}

	before, err := h.Service.Get(r.Context(), scope, principal, payload.ID)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}

	rec, err := h.Service.Update(r.Context(), scope, principal, payload, payload.UpdatedAt)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	h.logAudit(r, scope, principal, audit.ActionUpdate, rec.ID, before, rec)
	api.Success(w, rec, requestID)
}

type triageRequest struct {
	ExpectedUpdatedAt time.Time `json:"expectedUpdatedAt"`
}

func (h *Handler) handleTriage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	var payload triageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.ExpectedUpdatedAt.IsZero() {
		api.Fail(w, http.StatusBadRequest, "missing_token", "expectedUpdatedAt concurrency token is required", requestID)
		return
	}

	activityID := chi.URLParam(r, "activityID")
	result, err := h.Service.RunTriage(r.Context(), scope, principal, activityID, payload.ExpectedUpdatedAt)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	h.logAudit(r, scope, principal, audit.ActionTriage, activityID, nil, result.Classification)
	api.Success(w, result, requestID)
}

type transitionRequest struct {
	Target            string    `json:"target"`
	ExpectedUpdatedAt time.Time `json:"expectedUpdatedAt"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	scope, principal, ok := shared.TenantScope(w, r)
	if !ok {
		return
	}

	var payload transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("target", payload.Target, "target state is required")
	if payload.ExpectedUpdatedAt.IsZero() {
		v.Add("expectedUpdatedAt", "concurrency token is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	activityID := chi.URLParam(r, "activityID")
	rec, err := h.Service.Transition(r.Context(), scope, principal, activityID, rat.State(payload.Target), payload.ExpectedUpdatedAt)
	if err != nil {
		shared.WriteDomainError(w, err, requestID)
		return
	}
	h.logAudit(r, scope, principal, audit.ActionTransition, rec.ID, nil, map[string]any{"state": rec.State})
	api.Success(w, rec, requestID)
}

func (h *Handler) logAudit(r *http.Request, scope tenant.Scope, principal auth.Principal, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Record(r.Context(), scope, principal.UserID, action, "processing_activity", entityID,
		middleware.GetRequestID(r.Context()), middleware.ClientIP(r), before, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}
