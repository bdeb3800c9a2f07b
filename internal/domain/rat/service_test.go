package rat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
)

type fakeTask struct {
	id        string
	recordID  string
	draft     TaskDraft
	status    string
	createdAt time.Time
}

type fakeStore struct {
	records map[string]Record
	tasks   map[string]*fakeTask
	seq     int
	now     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]Record{},
		tasks:   map[string]*fakeTask{},
		now:     time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) key(scope tenant.Scope, recordID, artifact string) string {
	return scope.TenantID() + "/" + recordID + "/" + artifact
}

func (f *fakeStore) Get(_ context.Context, scope tenant.Scope, id string) (Record, error) {
	if err := scope.Require(); err != nil {
		return Record{}, err
	}
	rec, ok := f.records[id]
	if !ok || rec.TenantID != scope.TenantID() {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) List(_ context.Context, scope tenant.Scope, _ Filter, _, _ int) ([]Record, int, error) {
	if err := scope.Require(); err != nil {
		return nil, 0, err
	}
	var out []Record
	for _, rec := range f.records {
		if rec.TenantID == scope.TenantID() {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Count(_ context.Context, scope tenant.Scope) (int, error) {
	if err := scope.Require(); err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range f.records {
		if rec.TenantID == scope.TenantID() {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) Insert(_ context.Context, scope tenant.Scope, rec *Record) error {
	if err := scope.Require(); err != nil {
		return err
	}
	f.seq++
	rec.ID = fmt.Sprintf("rec-%d", f.seq)
	rec.CreatedAt = f.tick()
	rec.UpdatedAt = rec.CreatedAt
	f.records[rec.ID] = *rec
	return nil
}

func (f *fakeStore) Update(_ context.Context, scope tenant.Scope, rec *Record, expected time.Time) error {
	return f.save(scope, rec, expected)
}

func (f *fakeStore) UpdateState(_ context.Context, scope tenant.Scope, rec *Record, expected time.Time) error {
	return f.save(scope, rec, expected)
}

func (f *fakeStore) save(scope tenant.Scope, rec *Record, expected time.Time) error {
	if err := scope.Require(); err != nil {
		return err
	}
	current, ok := f.records[rec.ID]
	if !ok || current.TenantID != scope.TenantID() {
		return ErrNotFound
	}
	if !current.UpdatedAt.Equal(expected) {
		return ErrConflict
	}
	rec.UpdatedAt = f.tick()
	f.records[rec.ID] = *rec
	return nil
}

func (f *fakeStore) SaveTriage(_ context.Context, scope tenant.Scope, rec *Record, expected time.Time, cls Classification) ([]EmittedTask, error) {
	if err := f.save(scope, rec, expected); err != nil {
		return nil, err
	}
	rec.RiskLevel = cls.RiskLevel
	rec.ComplianceScore = cls.ComplianceScore
	f.records[rec.ID] = *rec

	var emitted []EmittedTask
	for _, draft := range cls.RequiredTasks {
		key := f.key(scope, rec.ID, draft.ArtifactType)
		existing, ok := f.tasks[key]
		if ok {
			if existing.status == "pending" {
				existing.draft = draft
			}
			emitted = append(emitted, EmittedTask{ID: existing.id, ArtifactType: draft.ArtifactType, Created: false})
			continue
		}
		f.seq++
		task := &fakeTask{
			id:        fmt.Sprintf("task-%d", f.seq),
			recordID:  rec.ID,
			draft:     draft,
			status:    "pending",
			createdAt: f.now,
		}
		f.tasks[key] = task
		emitted = append(emitted, EmittedTask{ID: task.id, ArtifactType: draft.ArtifactType, Created: true})
	}
	return emitted, nil
}

func (f *fakeStore) OpenTaskCount(_ context.Context, scope tenant.Scope, recordID string) (int, error) {
	if err := scope.Require(); err != nil {
		return 0, err
	}
	count := 0
	for _, task := range f.tasks {
		if task.recordID == recordID && (task.status == "pending" || task.status == "in_review") {
			count++
		}
	}
	return count, nil
}

type fakeTenants struct {
	tenant tenant.Tenant
}

func (f fakeTenants) Get(_ context.Context, _ tenant.Scope) (tenant.Tenant, error) {
	return f.tenant, nil
}

type fakeNotifier struct {
	calls   int
	created []EmittedTask
}

func (f *fakeNotifier) TasksEmitted(_ context.Context, _ tenant.Scope, _ Record, created []EmittedTask) error {
	f.calls++
	f.created = append(f.created, created...)
	return nil
}

func newTestService(industry string) (*Service, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewService(store, fakeTenants{tenant.Tenant{ID: "t-1", Industry: industry, Active: true, MaxRecords: 10}}, notifier)
	return svc, store, notifier
}

func testScope(t *testing.T) (tenant.Scope, auth.Principal) {
	t.Helper()
	principal := auth.Principal{UserID: "u-1", TenantIDs: []string{"t-1"}, RoleName: auth.RoleDPO}
	scope, err := tenant.Resolve(principal, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	return scope, principal
}

func TestTriageEmissionIsIdempotent(t *testing.T) {
	svc, _, notifier := newTestService("")
	scope, principal := testScope(t)

	rec := minimalRecord()
	rec.SensitiveCategories = []string{"salud"}
	rec.Transfer = InternationalTransfer{Exists: true, Countries: []string{"USA"}}
	created, err := svc.Create(context.Background(), scope, principal, rec)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := svc.RunTriage(context.Background(), scope, principal, created.ID, created.UpdatedAt)
	if err != nil {
		t.Fatalf("first triage failed: %v", err)
	}
	if len(first.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(first.Tasks))
	}
	for _, task := range first.Tasks {
		if !task.Created {
			t.Fatalf("first run should create every task: %+v", task)
		}
	}
	if notifier.calls != 1 || len(notifier.created) != 3 {
		t.Fatalf("expected one notification batch of 3, got calls=%d created=%d", notifier.calls, len(notifier.created))
	}

	second, err := svc.RunTriage(context.Background(), scope, principal, created.ID, first.Record.UpdatedAt)
	if err != nil {
		t.Fatalf("second triage failed: %v", err)
	}
	if len(second.Tasks) != 3 {
		t.Fatalf("expected 3 tasks on re-run, got %d", len(second.Tasks))
	}
	ids := map[string]string{}
	for _, task := range first.Tasks {
		ids[task.ArtifactType] = task.ID
	}
	for _, task := range second.Tasks {
		if task.Created {
			t.Fatalf("re-run must not create duplicates: %+v", task)
		}
		if ids[task.ArtifactType] != task.ID {
			t.Fatalf("task id changed across runs: %+v", task)
		}
	}
	if notifier.calls != 1 {
		t.Fatalf("re-run must not notify again, calls=%d", notifier.calls)
	}
}

func TestTriageValidationReportsEveryField(t *testing.T) {
	svc, store, _ := newTestService("")
	scope, principal := testScope(t)

	rec := Record{TenantID: "t-1", State: StateDraft}
	rec.Normalize()
	store.seq++
	rec.ID = "rec-bad"
	rec.UpdatedAt = store.tick()
	store.records[rec.ID] = rec

	_, err := svc.RunTriage(context.Background(), scope, principal, rec.ID, rec.UpdatedAt)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Issues) < 2 {
		t.Fatalf("expected batched issues, got %v", vErr.Issues)
	}
}

func TestTriageRoutesHighRiskToApprovalQueue(t *testing.T) {
	svc, _, _ := newTestService("")
	scope, principal := testScope(t)

	rec := minimalRecord()
	rec.SensitiveCategories = []string{"biométrico"}
	created, err := svc.Create(context.Background(), scope, principal, rec)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	result, err := svc.RunTriage(context.Background(), scope, principal, created.ID, created.UpdatedAt)
	if err != nil {
		t.Fatalf("triage failed: %v", err)
	}
	if result.Record.State != StatePendingApproval {
		t.Fatalf("high risk should queue for approval, got %s", result.Record.State)
	}

	low, err := svc.Create(context.Background(), scope, principal, minimalRecord())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	lowResult, err := svc.RunTriage(context.Background(), scope, principal, low.ID, low.UpdatedAt)
	if err != nil {
		t.Fatalf("triage failed: %v", err)
	}
	if lowResult.Record.State != StateInReview {
		t.Fatalf("low risk should enter review, got %s", lowResult.Record.State)
	}
}

func TestStaleUpdateConflictsThenSucceedsAfterRefresh(t *testing.T) {
	svc, _, _ := newTestService("")
	scope, principal := testScope(t)

	created, err := svc.Create(context.Background(), scope, principal, minimalRecord())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// First writer wins.
	winner := created
	winner.ResponsibleArea = "Operaciones"
	updated, err := svc.Update(context.Background(), scope, principal, winner, created.UpdatedAt)
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// Second writer holds the original token and must conflict.
	loser := created
	loser.ResponsibleArea = "Finanzas"
	_, err = svc.Update(context.Background(), scope, principal, loser, created.UpdatedAt)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// After re-fetch the same intent applies cleanly.
	refreshed, err := svc.Get(context.Background(), scope, principal, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	refreshed.ResponsibleArea = "Finanzas"
	final, err := svc.Update(context.Background(), scope, principal, refreshed, updated.UpdatedAt)
	if err != nil {
		t.Fatalf("retry after refresh failed: %v", err)
	}
	if final.ResponsibleArea != "Finanzas" {
		t.Fatalf("final state lost the second writer's intent: %q", final.ResponsibleArea)
	}
}

func TestCertificationBlockedWhileTasksOpen(t *testing.T) {
	svc, store, _ := newTestService("")
	scope, principal := testScope(t)

	rec := minimalRecord()
	rec.SensitiveCategories = []string{"salud"}
	created, err := svc.Create(context.Background(), scope, principal, rec)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	triaged, err := svc.RunTriage(context.Background(), scope, principal, created.ID, created.UpdatedAt)
	if err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	// Move through the approval path.
	current := triaged.Record
	for _, target := range []State{StateApproved, StateActive} {
		current, err = svc.Transition(context.Background(), scope, principal, current.ID, target, current.UpdatedAt)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}

	_, err = svc.Transition(context.Background(), scope, principal, current.ID, StateCertified, current.UpdatedAt)
	if !errors.Is(err, ErrTasksOpen) {
		t.Fatalf("expected ErrTasksOpen, got %v", err)
	}

	for _, task := range store.tasks {
		task.status = "completed"
	}
	certified, err := svc.Transition(context.Background(), scope, principal, current.ID, StateCertified, current.UpdatedAt)
	if err != nil {
		t.Fatalf("certification with closed tasks failed: %v", err)
	}
	if certified.State != StateCertified {
		t.Fatalf("expected certified, got %s", certified.State)
	}
}

func TestQuotaEnforcedOnCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeTenants{tenant.Tenant{ID: "t-1", Active: true, MaxRecords: 1}}, nil)
	scope, principal := testScope(t)

	if _, err := svc.Create(context.Background(), scope, principal, minimalRecord()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), scope, principal, minimalRecord())
	if !errors.Is(err, tenant.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestInactiveTenantCannotCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeTenants{tenant.Tenant{ID: "t-1", Active: false}}, nil)
	scope, principal := testScope(t)

	_, err := svc.Create(context.Background(), scope, principal, minimalRecord())
	if !errors.Is(err, tenant.ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestGetNeverCrossesTenants(t *testing.T) {
	svc, store, _ := newTestService("")

	foreign := minimalRecord()
	foreign.ID = "rec-foreign"
	foreign.TenantID = "t-other"
	foreign.UpdatedAt = store.tick()
	store.records[foreign.ID] = foreign

	scope, principal := testScope(t)
	_, err := svc.Get(context.Background(), scope, principal, foreign.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("scoped read of a foreign record must miss, got %v", err)
	}
}
