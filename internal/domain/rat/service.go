package rat

import (
	"context"
	"log/slog"
	"time"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
)

// TenantDirectory supplies the tenant's industry and quota during triage.
type TenantDirectory interface {
	Get(ctx context.Context, scope tenant.Scope) (tenant.Tenant, error)
}

// Notifier schedules DPO notifications for newly created tasks. Delivery is
// fire-and-forget: a scheduling failure never unwinds the triage commit.
type Notifier interface {
	TasksEmitted(ctx context.Context, scope tenant.Scope, rec Record, created []EmittedTask) error
}

type Service struct {
	Store   StoreAPI
	Tenants TenantDirectory
	Notify  Notifier
}

func NewService(store StoreAPI, tenants TenantDirectory, notify Notifier) *Service {
	return &Service{Store: store, Tenants: tenants, Notify: notify}
}

type TriageResult struct {
	Record         Record         `json:"record"`
	Classification Classification `json:"classification"`
	Tasks          []EmittedTask  `json:"tasks"`
}

func (s *Service) Get(ctx context.Context, scope tenant.Scope, principal auth.Principal, id string) (Record, error) {
	rec, err := s.Store.Get(ctx, scope, id)
	if err != nil {
		return Record{}, err
	}
	// The store query is already tenant-filtered; the re-check holds the
	// isolation invariant even if a storage path regresses.
	if !tenant.Authorize(principal, scope, rec.TenantID) {
		return Record{}, tenant.ErrUnauthorizedTenant
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, scope tenant.Scope, filter Filter, limit, offset int) ([]Record, int, error) {
	return s.Store.List(ctx, scope, filter, limit, offset)
}

func (s *Service) Create(ctx context.Context, scope tenant.Scope, principal auth.Principal, rec Record) (Record, error) {
	t, err := s.Tenants.Get(ctx, scope)
	if err != nil {
		return Record{}, err
	}
	if !t.Active {
		return Record{}, tenant.ErrInactive
	}
	if t.MaxRecords > 0 {
		count, err := s.Store.Count(ctx, scope)
		if err != nil {
			return Record{}, err
		}
		if count >= t.MaxRecords {
			return Record{}, tenant.ErrQuotaExceeded
		}
	}

	rec.Normalize()
	rec.TenantID = scope.TenantID()
	rec.State = StateDraft
	rec.RiskLevel = RiskLow
	rec.ComplianceScore = ComplianceScore(&rec)
	rec.CreatedBy = principal.UserID
	if err := s.Store.Insert(ctx, scope, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, scope tenant.Scope, principal auth.Principal, rec Record, expectedUpdatedAt time.Time) (Record, error) {
	current, err := s.Get(ctx, scope, principal, rec.ID)
	if err != nil {
		return Record{}, err
	}
	// Identity and lifecycle fields are not writable through Update.
	rec.TenantID = current.TenantID
	rec.State = current.State
	rec.CreatedBy = current.CreatedBy
	rec.Normalize()
	if err := s.Store.Update(ctx, scope, &rec, expectedUpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RunTriage validates the record, classifies it, moves it out of Draft and
// commits record + task upserts atomically. Repeating a run on an unchanged
// record re-emits the same task set without duplicates.
func (s *Service) RunTriage(ctx context.Context, scope tenant.Scope, principal auth.Principal, recordID string, expectedUpdatedAt time.Time) (TriageResult, error) {
	rec, err := s.Get(ctx, scope, principal, recordID)
	if err != nil {
		return TriageResult{}, err
	}
	rec.Normalize()

	if issues := ValidateForTriage(&rec); len(issues) > 0 {
		return TriageResult{}, &ValidationError{Issues: issues}
	}

	t, err := s.Tenants.Get(ctx, scope)
	if err != nil {
		return TriageResult{}, err
	}
	cls := Classify(&rec, t.Industry)

	if target, ok := triageTarget(rec.State, cls.RiskLevel); ok {
		if err := Transition(&rec, target, time.Now().UTC()); err != nil {
			return TriageResult{}, err
		}
	}

	emitted, err := s.Store.SaveTriage(ctx, scope, &rec, expectedUpdatedAt, cls)
	if err != nil {
		return TriageResult{}, err
	}

	created := createdOnly(emitted)
	if s.Notify != nil && len(created) > 0 {
		if err := s.Notify.TasksEmitted(ctx, scope, rec, created); err != nil {
			slog.Warn("task notification scheduling failed",
				"tenantId", scope.TenantID(), "recordId", rec.ID, "err", err)
		}
	}

	return TriageResult{Record: rec, Classification: cls, Tasks: emitted}, nil
}

// triageTarget decides where a triage run moves the record. High and
// critical risk go straight to the DPO queue; anything else enters review.
// Records already past review keep their state on re-triage.
func triageTarget(current State, risk RiskLevel) (State, bool) {
	switch current {
	case StateDraft:
		if riskRank[risk] >= riskRank[RiskHigh] {
			return StatePendingApproval, true
		}
		return StateInReview, true
	case StateChangesRequested:
		return StateInReview, true
	default:
		return "", false
	}
}

// Transition applies a caller-requested lifecycle move. Certification
// additionally requires every required task closed; activation does not.
func (s *Service) Transition(ctx context.Context, scope tenant.Scope, principal auth.Principal, recordID string, target State, expectedUpdatedAt time.Time) (Record, error) {
	rec, err := s.Get(ctx, scope, principal, recordID)
	if err != nil {
		return Record{}, err
	}

	if target == StateCertified {
		open, err := s.Store.OpenTaskCount(ctx, scope, rec.ID)
		if err != nil {
			return Record{}, err
		}
		if open > 0 {
			return Record{}, ErrTasksOpen
		}
	}

	if err := Transition(&rec, target, time.Now().UTC()); err != nil {
		return Record{}, err
	}
	if err := s.Store.UpdateState(ctx, scope, &rec, expectedUpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func createdOnly(emitted []EmittedTask) []EmittedTask {
	var out []EmittedTask
	for _, task := range emitted {
		if task.Created {
			out = append(out, task)
		}
	}
	return out
}
