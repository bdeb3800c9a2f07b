package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const notificationColumns = `
    id, tenant_id, user_id, type, title, body, record_id, task_id, read,
    delivery_status, attempts, next_attempt_at, last_error, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(
		&n.ID, &n.TenantID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.RecordID, &n.TaskID, &n.Read,
		&n.DeliveryStatus, &n.Attempts, &n.NextAttemptAt, &n.LastError, &n.CreatedAt,
	)
	return n, err
}

func (s *Store) Insert(ctx context.Context, scope tenant.Scope, n *Notification) error {
	if err := scope.Require(); err != nil {
		return err
	}
	err := s.DB.QueryRow(ctx, `
        INSERT INTO notifications
            (tenant_id, user_id, type, title, body, record_id, task_id,
             delivery_status, attempts, next_attempt_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, now())
        RETURNING id, created_at`,
		scope.TenantID(), n.UserID, n.Type, n.Title, n.Body, n.RecordID, n.TaskID,
		DeliveryPending,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.TenantID = scope.TenantID()
	n.DeliveryStatus = DeliveryPending
	return nil
}

func (s *Store) ListForUser(ctx context.Context, scope tenant.Scope, userID string, limit, offset int) ([]Notification, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
         WHERE tenant_id = $1 AND user_id = $2
         ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		scope.TenantID(), userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, scope tenant.Scope, userID string) (int, error) {
	if err := scope.Require(); err != nil {
		return 0, err
	}
	var count int
	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE tenant_id = $1 AND user_id = $2 AND read = FALSE`,
		scope.TenantID(), userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *Store) MarkRead(ctx context.Context, scope tenant.Scope, userID, notificationID string) error {
	if err := scope.Require(); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND tenant_id = $2 AND user_id = $3`,
		notificationID, scope.TenantID(), userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// DPOUserIDs returns the tenant's active users holding the DPO role.
func (s *Store) DPOUserIDs(ctx context.Context, scope tenant.Scope) ([]string, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `
        SELECT u.id
        FROM users u
        JOIN tenant_members tm ON tm.user_id = u.id
        JOIN roles r ON r.id = u.role_id
        WHERE tm.tenant_id = $1 AND u.status = 'active' AND r.name = $2
        ORDER BY u.created_at`,
		scope.TenantID(), auth.RoleDPO)
	if err != nil {
		return nil, fmt.Errorf("list dpo users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan dpo user: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) UserEmail(ctx context.Context, scope tenant.Scope, userID string) (string, error) {
	if err := scope.Require(); err != nil {
		return "", err
	}
	var email string
	err := s.DB.QueryRow(ctx, `
        SELECT u.email FROM users u
        JOIN tenant_members tm ON tm.user_id = u.id
        WHERE u.id = $1 AND tm.tenant_id = $2`,
		userID, scope.TenantID()).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup user email: %w", err)
	}
	return email, nil
}

// DueDeliveries pulls pending notifications whose retry window elapsed,
// across tenants. It runs only from the background worker.
func (s *Store) DueDeliveries(ctx context.Context, limit int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
         WHERE delivery_status = $1 AND next_attempt_at <= now()
         ORDER BY next_attempt_at LIMIT $2`,
		DeliveryPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list due deliveries: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due delivery: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx,
		`UPDATE notifications
         SET delivery_status = $1, attempts = attempts + 1, next_attempt_at = NULL, last_error = ''
         WHERE id = $2`,
		DeliveryDelivered, id)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

func (s *Store) MarkRetry(ctx context.Context, id string, attempts int, nextAttempt time.Time, lastError string) error {
	_, err := s.DB.Exec(ctx,
		`UPDATE notifications
         SET attempts = $1, next_attempt_at = $2, last_error = $3
         WHERE id = $4`,
		attempts, nextAttempt, lastError, id)
	if err != nil {
		return fmt.Errorf("mark retry: %w", err)
	}
	return nil
}

func (s *Store) MarkFailed(ctx context.Context, id string, attempts int, lastError string) error {
	_, err := s.DB.Exec(ctx,
		`UPDATE notifications
         SET delivery_status = $1, attempts = $2, next_attempt_at = NULL, last_error = $3
         WHERE id = $4`,
		DeliveryFailed, attempts, lastError, id)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

func (s *Store) CountFailed(ctx context.Context, scope tenant.Scope) (int, error) {
	if err := scope.Require(); err != nil {
		return 0, err
	}
	var count int
	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE tenant_id = $1 AND delivery_status = $2`,
		scope.TenantID(), DeliveryFailed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count failed deliveries: %w", err)
	}
	return count, nil
}
