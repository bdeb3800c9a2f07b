package reports

import "time"

// RegisterRow is one line of the processing-activity register export, the
// document a supervisory authority asks for first.
type RegisterRow struct {
	Name                string
	ResponsibleArea     string
	ResponsiblePerson   string
	Purposes            []string
	LegalBasis          string
	SubjectCategories   []string
	SensitiveCategories []string
	MinorsData          bool
	TransferCountries   []string
	RetentionPeriod     string
	State               string
	RiskLevel           string
	ComplianceScore     int
	UpdatedAt           time.Time
}

// Dashboard aggregates the tenant's compliance posture for the home view.
type Dashboard struct {
	TotalRecords     int            `json:"totalRecords"`
	RecordsByState   map[string]int `json:"recordsByState"`
	RecordsByRisk    map[string]int `json:"recordsByRisk"`
	TasksByStatus    map[string]int `json:"tasksByStatus"`
	OpenTasks        int            `json:"openTasks"`
	OverdueTasks     int            `json:"overdueTasks"`
	FailedDeliveries int            `json:"failedDeliveries"`
	AverageScore     int            `json:"averageScore"`
}
