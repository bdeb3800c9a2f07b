package auth

// Principal is the authenticated caller as seen by every domain operation.
// TenantIDs lists every tenant the user belongs to; the tenant guard decides
// which one a given request acts as.
type Principal struct {
	UserID    string
	TenantIDs []string
	RoleID    string
	RoleName  string
}

func (p Principal) MemberOf(tenantID string) bool {
	for _, id := range p.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

func (p Principal) IsSystemAdmin() bool {
	return p.RoleName == RoleSystemAdmin
}

type AuthUser struct {
	ID        string
	TenantIDs []string
	RoleID    string
	RoleName  string
	Password  string
}
