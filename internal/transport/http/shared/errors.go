package shared

import (
	"errors"
	"net/http"

	"lpdp/internal/domain/rat"
	"lpdp/internal/domain/tasks"
	"lpdp/internal/domain/tenant"
	"lpdp/internal/transport/http/api"
)

// WriteDomainError maps service-layer errors onto the HTTP surface. The
// conflict family maps to 409 so clients know a re-fetch and retry is the
// correct response.
func WriteDomainError(w http.ResponseWriter, err error, requestID string) {
	var validationErr *rat.ValidationError
	var transitionErr *rat.InvalidTransitionError
	var statusErr *tasks.InvalidStatusError

	switch {
	case errors.As(err, &validationErr):
		issues := make([]ValidationIssue, 0, len(validationErr.Issues))
		for _, issue := range validationErr.Issues {
			issues = append(issues, ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		FailValidation(w, requestID, issues)
	case errors.As(err, &transitionErr):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_transition", transitionErr.Error(), requestID)
	case errors.As(err, &statusErr):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_status", statusErr.Error(), requestID)
	case errors.Is(err, rat.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", "record was modified concurrently; reload and retry", requestID)
	case errors.Is(err, rat.ErrTasksOpen):
		api.Fail(w, http.StatusConflict, "tasks_open", "open compliance tasks prevent certification", requestID)
	case errors.Is(err, rat.ErrNotFound), errors.Is(err, tasks.ErrNotFound), errors.Is(err, tenant.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, tasks.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, tenant.ErrInactive):
		api.Fail(w, http.StatusForbidden, "tenant_inactive", "tenant is deactivated", requestID)
	case errors.Is(err, tenant.ErrQuotaExceeded):
		api.Fail(w, http.StatusForbidden, "quota_exceeded", "record quota reached for this tenant", requestID)
	case errors.Is(err, tenant.ErrUnscopedQuery):
		api.Fail(w, http.StatusForbidden, "unscoped", "request lacks a tenant scope", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", requestID)
	}
}
