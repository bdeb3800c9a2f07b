package notifications

import "time"

const (
	TypeTaskEmitted = "task_emitted"
)

// Delivery statuses for the outbound channel. In-app visibility is
// immediate on insert; delivery tracks the email leg only.
const (
	DeliveryPending   = "pending"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

type Notification struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenantId"`
	UserID         string     `json:"userId"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	RecordID       string     `json:"recordId,omitempty"`
	TaskID         string     `json:"taskId,omitempty"`
	Read           bool       `json:"read"`
	DeliveryStatus string     `json:"deliveryStatus"`
	Attempts       int        `json:"attempts"`
	NextAttemptAt  *time.Time `json:"nextAttemptAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
