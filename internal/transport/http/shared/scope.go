package shared

import (
	"errors"
	"net/http"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
	"lpdp/internal/transport/http/api"
	"lpdp/internal/transport/http/middleware"
)

const tenantHeader = "X-Tenant-ID"

// TenantScope resolves the caller's tenant scope from the principal and
// the optional X-Tenant-ID header. It writes the error response itself;
// callers bail out when ok is false.
func TenantScope(w http.ResponseWriter, r *http.Request) (tenant.Scope, auth.Principal, bool) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return tenant.Scope{}, auth.Principal{}, false
	}

	scope, err := tenant.Resolve(principal, r.Header.Get(tenantHeader))
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrUnresolvedTenant):
			api.Fail(w, http.StatusForbidden, "tenant_unresolved", "no tenant membership for this account", requestID)
		case errors.Is(err, tenant.ErrAmbiguousTenant):
			api.Fail(w, http.StatusConflict, "tenant_ambiguous", "account belongs to several tenants; set "+tenantHeader, requestID)
		case errors.Is(err, tenant.ErrUnauthorizedTenant):
			api.Fail(w, http.StatusForbidden, "tenant_forbidden", "not a member of the selected tenant", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "tenant_error", "tenant resolution failed", requestID)
		}
		return tenant.Scope{}, auth.Principal{}, false
	}
	return scope, principal, true
}
