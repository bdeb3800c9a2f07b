package rat

import (
	"context"
	"time"

	"lpdp/internal/domain/tenant"
)

type Filter struct {
	State State
	Risk  RiskLevel
}

// StoreAPI is what the service needs from persistence. The pgx store
// implements it; tests use an in-memory fake.
type StoreAPI interface {
	Get(ctx context.Context, scope tenant.Scope, id string) (Record, error)
	List(ctx context.Context, scope tenant.Scope, filter Filter, limit, offset int) ([]Record, int, error)
	Count(ctx context.Context, scope tenant.Scope) (int, error)
	Insert(ctx context.Context, scope tenant.Scope, rec *Record) error
	// Update persists descriptive fields with an optimistic-concurrency check
	// on expectedUpdatedAt; returns ErrConflict on a stale token.
	Update(ctx context.Context, scope tenant.Scope, rec *Record, expectedUpdatedAt time.Time) error
	// UpdateState persists only state and updated_at, same concurrency check.
	UpdateState(ctx context.Context, scope tenant.Scope, rec *Record, expectedUpdatedAt time.Time) error
	// SaveTriage atomically commits the record's new state, risk level and
	// score together with the task upserts: all or nothing. Task upserts are
	// idempotent per (record, artifactType); existing pending tasks keep
	// their id and creation timestamp and only absorb due/priority changes.
	SaveTriage(ctx context.Context, scope tenant.Scope, rec *Record, expectedUpdatedAt time.Time, cls Classification) ([]EmittedTask, error)
	// OpenTaskCount counts the record's tasks still pending or in review.
	OpenTaskCount(ctx context.Context, scope tenant.Scope, recordID string) (int, error)
}
