package tenant

import "lpdp/internal/domain/auth"

// Scope proves that a tenant was resolved for the current principal. The only
// way to obtain a non-zero Scope is Resolve (or ScopeFor in trusted system
// paths), so store methods that demand a Scope cannot be called with an
// unchecked tenant id. The zero Scope fails closed everywhere.
type Scope struct {
	tenantID string
}

func (s Scope) TenantID() string {
	return s.tenantID
}

// Require is the fail-closed check every store method runs first.
func (s Scope) Require() error {
	if s.tenantID == "" {
		return ErrUnscopedQuery
	}
	return nil
}

// ScopeFor builds a scope directly from a tenant id. Reserved for system
// paths that act outside a principal (seeding, background delivery); request
// handlers must go through Resolve.
func ScopeFor(tenantID string) Scope {
	return Scope{tenantID: tenantID}
}

// Resolve determines which tenant the principal is acting as. requested is
// the explicit selection (X-Tenant-ID), empty when the caller made none.
// There is never a silent default: zero memberships is ErrUnresolvedTenant,
// several memberships without an explicit selection is ErrAmbiguousTenant.
func Resolve(p auth.Principal, requested string) (Scope, error) {
	if requested != "" {
		if p.MemberOf(requested) || p.IsSystemAdmin() {
			return Scope{tenantID: requested}, nil
		}
		return Scope{}, ErrUnauthorizedTenant
	}

	switch len(p.TenantIDs) {
	case 0:
		return Scope{}, ErrUnresolvedTenant
	case 1:
		return Scope{tenantID: p.TenantIDs[0]}, nil
	default:
		return Scope{}, ErrAmbiguousTenant
	}
}

// Authorize reports whether the principal, acting as the resolved scope, may
// touch an entity owned by ownerTenantID. True only on an exact tenant match
// or an explicit cross-tenant system-admin role.
func Authorize(p auth.Principal, scope Scope, ownerTenantID string) bool {
	if ownerTenantID == "" || scope.tenantID == "" {
		return false
	}
	if scope.tenantID == ownerTenantID {
		return true
	}
	return p.IsSystemAdmin()
}
