package notifications

import (
	"context"
	"time"

	"lpdp/internal/domain/tenant"
)

type StoreAPI interface {
	Insert(ctx context.Context, scope tenant.Scope, n *Notification) error
	ListForUser(ctx context.Context, scope tenant.Scope, userID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, scope tenant.Scope, userID string) (int, error)
	MarkRead(ctx context.Context, scope tenant.Scope, userID, notificationID string) error

	DPOUserIDs(ctx context.Context, scope tenant.Scope) ([]string, error)
	UserEmail(ctx context.Context, scope tenant.Scope, userID string) (string, error)

	DueDeliveries(ctx context.Context, limit int) ([]Notification, error)
	MarkDelivered(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id string, attempts int, nextAttempt time.Time, lastError string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastError string) error
	CountFailed(ctx context.Context, scope tenant.Scope) (int, error)
}
