package tenant

import "time"

// Tenant is an isolated customer organization. Industry selects the
// sector-specific checklist overlay applied during triage. Tenants are
// deactivated, never deleted.
type Tenant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Industry   string    `json:"industry"`
	Active     bool      `json:"active"`
	MaxRecords int       `json:"maxRecords"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
