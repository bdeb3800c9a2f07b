package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lpdp/internal/domain/tenant"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Filter struct {
	RecordID string
	Status   string
	Priority string
}

const taskColumns = `
    id, tenant_id, record_id, artifact_type, legal_basis_ref, due_in_days,
    priority, status, completed_by, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.TenantID, &t.RecordID, &t.ArtifactType, &t.LegalBasisRef, &t.DueInDays,
		&t.Priority, &t.Status, &t.CompletedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (s *Store) Get(ctx context.Context, scope tenant.Scope, id string) (Task, error) {
	if err := scope.Require(); err != nil {
		return Task{}, err
	}
	row := s.DB.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM compliance_tasks WHERE id = $1 AND tenant_id = $2`,
		id, scope.TenantID())
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) List(ctx context.Context, scope tenant.Scope, filter Filter, limit, offset int) ([]Task, int, error) {
	if err := scope.Require(); err != nil {
		return nil, 0, err
	}

	where := `WHERE tenant_id = $1`
	args := []any{scope.TenantID()}
	if filter.RecordID != "" {
		args = append(args, filter.RecordID)
		where += fmt.Sprintf(` AND record_id = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where += fmt.Sprintf(` AND priority = $%d`, len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM compliance_tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx,
		`SELECT `+taskColumns+` FROM compliance_tasks `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// UpdateStatus moves a task and stamps completion metadata when the move
// closes it. The previous status is matched in the WHERE clause so a
// concurrent close cannot be reopened or double-applied.
func (s *Store) UpdateStatus(ctx context.Context, scope tenant.Scope, id, from, to, actorID string) (Task, error) {
	if err := scope.Require(); err != nil {
		return Task{}, err
	}
	var completedBy any
	closing := to == StatusCompleted || to == StatusCancelled
	if closing {
		completedBy = actorID
	}
	row := s.DB.QueryRow(ctx, `
        UPDATE compliance_tasks
        SET status = $1,
            completed_by = COALESCE($2, completed_by),
            completed_at = CASE WHEN $3 THEN now() ELSE completed_at END,
            updated_at = now()
        WHERE id = $4 AND tenant_id = $5 AND status = $6
        RETURNING `+taskColumns,
		to, completedBy, closing, id, scope.TenantID(), from)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("update task status: %w", err)
	}
	return t, nil
}

// CountByStatus feeds the dashboard widgets.
func (s *Store) CountByStatus(ctx context.Context, scope tenant.Scope) (map[string]int, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM compliance_tasks WHERE tenant_id = $1 GROUP BY status`,
		scope.TenantID())
	if err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan task count: %w", err)
		}
		out[status] = count
	}
	return out, rows.Err()
}
