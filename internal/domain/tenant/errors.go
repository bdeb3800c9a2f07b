package tenant

import "errors"

var (
	// ErrUnresolvedTenant means the principal has no tenant membership at all.
	ErrUnresolvedTenant = errors.New("principal has no tenant membership")
	// ErrAmbiguousTenant means the principal belongs to several tenants and
	// none was explicitly selected. Callers must prompt for a selection;
	// there is no default.
	ErrAmbiguousTenant = errors.New("principal belongs to multiple tenants and none was selected")
	// ErrUnauthorizedTenant means the requested tenant is not one the
	// principal may act as.
	ErrUnauthorizedTenant = errors.New("principal is not a member of the requested tenant")
	// ErrUnscopedQuery means a store operation was attempted without a scope
	// obtained from Resolve. Such operations fail closed.
	ErrUnscopedQuery = errors.New("operation attempted without a tenant scope")

	ErrNotFound      = errors.New("tenant not found")
	ErrInactive      = errors.New("tenant is deactivated")
	ErrQuotaExceeded = errors.New("tenant record quota exceeded")
)
