package tasks

import "time"

// Task statuses. Completed and cancelled are terminal; tasks are closed,
// never deleted, so the compliance trail stays reconstructible.
const (
	StatusPending   = "pending"
	StatusInReview  = "in_review"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Task is a remediation artifact a record's triage run demanded, such as an
// impact assessment or a transfer agreement. The (tenant, record, artifact
// type) triple is unique, which is what makes re-triage idempotent.
type Task struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenantId"`
	RecordID      string     `json:"recordId"`
	ArtifactType  string     `json:"artifactType"`
	LegalBasisRef string     `json:"legalBasisRef"`
	DueInDays     int        `json:"dueInDays"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	CompletedBy   string     `json:"completedBy,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

var statusTransitions = map[string][]string{
	StatusPending:   {StatusInReview, StatusCompleted, StatusCancelled},
	StatusInReview:  {StatusPending, StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanMove reports whether a task may move from one status to another.
func CanMove(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Open reports whether the status still counts against certification.
func Open(status string) bool {
	return status == StatusPending || status == StatusInReview
}
