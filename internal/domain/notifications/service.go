package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lpdp/internal/domain/rat"
	"lpdp/internal/domain/tenant"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string

	InitialDelay time.Duration
	MaxAttempts  int
}

func New(store StoreAPI, mailer Mailer, initialDelay time.Duration, maxAttempts int) *Service {
	return &Service{
		store:        store,
		Mailer:       mailer,
		DefaultFrom:  "no-reply@example.com",
		InitialDelay: initialDelay,
		MaxAttempts:  maxAttempts,
	}
}

// TasksEmitted fans a triage run's new tasks out to every DPO of the
// tenant. Failures are logged and retried by the delivery worker; the
// triage transaction has already committed and is never rolled back for
// a notification problem.
func (s *Service) TasksEmitted(ctx context.Context, scope tenant.Scope, rec rat.Record, created []rat.EmittedTask) error {
	dpoIDs, err := s.store.DPOUserIDs(ctx, scope)
	if err != nil {
		return fmt.Errorf("resolve dpo recipients: %w", err)
	}
	if len(dpoIDs) == 0 {
		slog.Warn("no dpo recipients for emitted tasks", "tenantId", scope.TenantID(), "recordId", rec.ID)
		return nil
	}

	for _, task := range created {
		title := fmt.Sprintf("Nueva tarea de cumplimiento: %s", task.ArtifactType)
		body := fmt.Sprintf("La actividad de tratamiento %q requiere el artefacto %s.", rec.Name, task.ArtifactType)
		for _, userID := range dpoIDs {
			n := &Notification{
				UserID:   userID,
				Type:     TypeTaskEmitted,
				Title:    title,
				Body:     body,
				RecordID: rec.ID,
				TaskID:   task.ID,
			}
			if err := s.store.Insert(ctx, scope, n); err != nil {
				slog.Warn("notification insert failed",
					"tenantId", scope.TenantID(), "taskId", task.ID, "userId", userID, "err", err)
			}
		}
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, scope tenant.Scope, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListForUser(ctx, scope, userID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, scope tenant.Scope, userID string) (int, error) {
	return s.store.CountUnread(ctx, scope, userID)
}

func (s *Service) MarkRead(ctx context.Context, scope tenant.Scope, userID, notificationID string) error {
	return s.store.MarkRead(ctx, scope, userID, notificationID)
}

func (s *Service) CountFailed(ctx context.Context, scope tenant.Scope) (int, error) {
	return s.store.CountFailed(ctx, scope)
}

// DeliverDue attempts the email leg for every notification whose retry
// window has elapsed. Each delivery is marked individually so a single
// bad address cannot block the batch.
func (s *Service) DeliverDue(ctx context.Context, batchSize int) (int, error) {
	due, err := s.store.DueDeliveries(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, n := range due {
		if err := s.deliver(ctx, n); err != nil {
			s.recordFailure(ctx, n, err)
			continue
		}
		if err := s.store.MarkDelivered(ctx, n.ID); err != nil {
			slog.Warn("mark delivered failed", "notificationId", n.ID, "err", err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

func (s *Service) deliver(ctx context.Context, n Notification) error {
	if s.Mailer == nil {
		return nil
	}
	scope := tenant.ScopeFor(n.TenantID)
	email, err := s.store.UserEmail(ctx, scope, n.UserID)
	if err != nil {
		return err
	}
	if email == "" {
		return nil
	}
	return s.Mailer.Send(ctx, s.DefaultFrom, email, n.Title, n.Body)
}

func (s *Service) recordFailure(ctx context.Context, n Notification, cause error) {
	attempts := n.Attempts + 1
	if attempts >= s.MaxAttempts {
		if err := s.store.MarkFailed(ctx, n.ID, attempts, cause.Error()); err != nil {
			slog.Warn("mark failed failed", "notificationId", n.ID, "err", err)
		}
		slog.Error("notification delivery exhausted",
			"notificationId", n.ID, "attempts", attempts, "err", cause)
		return
	}
	next := time.Now().UTC().Add(NextDelay(s.InitialDelay, attempts))
	if err := s.store.MarkRetry(ctx, n.ID, attempts, next, cause.Error()); err != nil {
		slog.Warn("mark retry failed", "notificationId", n.ID, "err", err)
	}
}
