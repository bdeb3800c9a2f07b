package tasks

import (
	"context"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, scope tenant.Scope, id string) (Task, error) {
	return s.Store.Get(ctx, scope, id)
}

func (s *Service) List(ctx context.Context, scope tenant.Scope, filter Filter, limit, offset int) ([]Task, int, error) {
	return s.Store.List(ctx, scope, filter, limit, offset)
}

// Move changes a task's status. Closing moves are reserved for the DPO,
// the tenant admin and platform operators; analysts may only shuffle open
// work between pending and in_review.
func (s *Service) Move(ctx context.Context, scope tenant.Scope, principal auth.Principal, id, to string) (Task, error) {
	task, err := s.Store.Get(ctx, scope, id)
	if err != nil {
		return Task{}, err
	}
	if !CanMove(task.Status, to) {
		return Task{}, &InvalidStatusError{From: task.Status, To: to}
	}
	if (to == StatusCompleted || to == StatusCancelled) && !canClose(principal) {
		return Task{}, ErrForbidden
	}
	return s.Store.UpdateStatus(ctx, scope, id, task.Status, to, principal.UserID)
}

func canClose(p auth.Principal) bool {
	switch p.RoleName {
	case auth.RoleDPO, auth.RoleAdmin, auth.RoleSystemAdmin:
		return true
	}
	return false
}
