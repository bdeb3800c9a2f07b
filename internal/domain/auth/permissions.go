package auth

const (
	RoleAnalyst     = "Analyst"
	RoleDPO         = "DPO"
	RoleAdmin       = "Admin"
	RoleSystemAdmin = "SystemAdmin"
)

const (
	PermActivitiesRead  = "activities.read"
	PermActivitiesWrite = "activities.write"
	PermActivitiesMove  = "activities.transition"
	PermTasksRead       = "tasks.read"
	PermTasksReview     = "tasks.review"
	PermTasksComplete   = "tasks.complete"
	PermTenantsRead     = "tenants.read"
	PermTenantsManage   = "tenants.manage"
	PermReportsRead     = "reports.read"
	PermAuditRead       = "audit.read"
	PermSystemAdmin     = "admin.system"
)

var DefaultPermissions = []string{
	PermActivitiesRead,
	PermActivitiesWrite,
	PermActivitiesMove,
	PermTasksRead,
	PermTasksReview,
	PermTasksComplete,
	PermTenantsRead,
	PermTenantsManage,
	PermReportsRead,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleAnalyst: {
		PermActivitiesRead,
		PermActivitiesWrite,
		PermTasksRead,
		PermReportsRead,
	},
	RoleDPO: {
		PermActivitiesRead,
		PermActivitiesWrite,
		PermActivitiesMove,
		PermTasksRead,
		PermTasksReview,
		PermTasksComplete,
		PermTenantsRead,
		PermReportsRead,
		PermAuditRead,
	},
	RoleAdmin: {
		PermActivitiesRead,
		PermActivitiesWrite,
		PermActivitiesMove,
		PermTasksRead,
		PermTasksReview,
		PermTenantsRead,
		PermTenantsManage,
		PermReportsRead,
		PermAuditRead,
	},
	RoleSystemAdmin: DefaultPermissions,
}
