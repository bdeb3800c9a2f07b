package rat

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const recordColumns = `
    id, tenant_id, name, responsible_area, responsible_person, contact_email,
    purposes, legal_basis, subject_categories, data_categories,
    sensitive_categories, minors_data, automated_decisions,
    storage_systems, internal_recipients, external_recipients,
    transfer_exists, transfer_countries, transfer_safeguards,
    retention_period, disposal_method, technical_measures, organizational_measures,
    state, risk_level, compliance_score, created_by, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.TenantID, &r.Name, &r.ResponsibleArea, &r.ResponsiblePerson, &r.ContactEmail,
		&r.Purposes, &r.LegalBasis, &r.SubjectCategories, &r.DataCategories,
		&r.SensitiveCategories, &r.MinorsData, &r.AutomatedDecisions,
		&r.StorageSystems, &r.InternalRecipients, &r.ExternalRecipients,
		&r.Transfer.Exists, &r.Transfer.Countries, &r.Transfer.Safeguards,
		&r.RetentionPeriod, &r.DisposalMethod, &r.TechnicalMeasures, &r.OrganizationalMeasures,
		&r.State, &r.RiskLevel, &r.ComplianceScore, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	r.Normalize()
	return r, nil
}

func (s *Store) Get(ctx context.Context, scope tenant.Scope, id string) (Record, error) {
	if err := scope.Require(); err != nil {
		return Record{}, err
	}
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM processing_activities
    WHERE tenant_id = $1 AND id = $2
  `, scope.TenantID(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) List(ctx context.Context, scope tenant.Scope, filter Filter, limit, offset int) ([]Record, int, error) {
	if err := scope.Require(); err != nil {
		return nil, 0, err
	}

	where := " FROM processing_activities WHERE tenant_id = $1"
	args := []any{scope.TenantID()}
	if filter.State != "" {
		where += fmt.Sprintf(" AND state = $%d", len(args)+1)
		args = append(args, filter.State)
	}
	if filter.Risk != "" {
		where += fmt.Sprintf(" AND risk_level = $%d", len(args)+1)
		args = append(args, filter.Risk)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + recordColumns + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (s *Store) Count(ctx context.Context, scope tenant.Scope) (int, error) {
	if err := scope.Require(); err != nil {
		return 0, err
	}
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM processing_activities WHERE tenant_id = $1", scope.TenantID()).Scan(&total)
	return total, err
}

func (s *Store) Insert(ctx context.Context, scope tenant.Scope, rec *Record) error {
	if err := scope.Require(); err != nil {
		return err
	}
	return s.DB.QueryRow(ctx, `
    INSERT INTO processing_activities (
      tenant_id, name, responsible_area, responsible_person, contact_email,
      purposes, legal_basis, subject_categories, data_categories,
      sensitive_categories, minors_data, automated_decisions,
      storage_systems, internal_recipients, external_recipients,
      transfer_exists, transfer_countries, transfer_safeguards,
      retention_period, disposal_method, technical_measures, organizational_measures,
      state, risk_level, compliance_score, created_by
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
    RETURNING id, created_at, updated_at
  `,
		scope.TenantID(), rec.Name, rec.ResponsibleArea, rec.ResponsiblePerson, rec.ContactEmail,
		rec.Purposes, rec.LegalBasis, rec.SubjectCategories, rec.DataCategories,
		rec.SensitiveCategories, rec.MinorsData, rec.AutomatedDecisions,
		rec.StorageSystems, rec.InternalRecipients, rec.ExternalRecipients,
		rec.Transfer.Exists, rec.Transfer.Countries, rec.Transfer.Safeguards,
		rec.RetentionPeriod, rec.DisposalMethod, rec.TechnicalMeasures, rec.OrganizationalMeasures,
		rec.State, rec.RiskLevel, rec.ComplianceScore, rec.CreatedBy,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (s *Store) Update(ctx context.Context, scope tenant.Scope, rec *Record, expectedUpdatedAt time.Time) error {
	if err := scope.Require(); err != nil {
		return err
	}
	err := s.DB.QueryRow(ctx, `
    UPDATE processing_activities SET
      name = $3, responsible_area = $4, responsible_person = $5, contact_email = $6,
      purposes = $7, legal_basis = $8, subject_categories = $9, data_categories = $10,
      sensitive_categories = $11, minors_data = $12, automated_decisions = $13,
      storage_systems = $14, internal_recipients = $15, external_recipients = $16,
      transfer_exists = $17, transfer_countries = $18, transfer_safeguards = $19,
      retention_period = $20, disposal_method = $21,
      technical_measures = $22, organizational_measures = $23,
      updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND updated_at = $24
    RETURNING updated_at
  `,
		scope.TenantID(), rec.ID,
		rec.Name, rec.ResponsibleArea, rec.ResponsiblePerson, rec.ContactEmail,
		rec.Purposes, rec.LegalBasis, rec.SubjectCategories, rec.DataCategories,
		rec.SensitiveCategories, rec.MinorsData, rec.AutomatedDecisions,
		rec.StorageSystems, rec.InternalRecipients, rec.ExternalRecipients,
		rec.Transfer.Exists, rec.Transfer.Countries, rec.Transfer.Safeguards,
		rec.RetentionPeriod, rec.DisposalMethod,
		rec.TechnicalMeasures, rec.OrganizationalMeasures,
		expectedUpdatedAt,
	).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.staleOrMissing(ctx, scope, rec.ID)
	}
	return err
}

func (s *Store) UpdateState(ctx context.Context, scope tenant.Scope, rec *Record, expectedUpdatedAt time.Time) error {
	if err := scope.Require(); err != nil {
		return err
	}
	err := s.DB.QueryRow(ctx, `
    UPDATE processing_activities
    SET state = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND updated_at = $4
    RETURNING updated_at
  `, scope.TenantID(), rec.ID, rec.State, expectedUpdatedAt).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.staleOrMissing(ctx, scope, rec.ID)
	}
	return err
}

// SaveTriage commits the triage outcome in one transaction: record state,
// risk and score plus the task upserts. The unique index on
// (tenant_id, record_id, artifact_type) makes re-emission idempotent;
// tasks past pending are left untouched and keep their history.
func (s *Store) SaveTriage(ctx context.Context, scope tenant.Scope, rec *Record, expectedUpdatedAt time.Time, cls Classification) ([]EmittedTask, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    UPDATE processing_activities
    SET state = $3, risk_level = $4, compliance_score = $5, updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND updated_at = $6
    RETURNING updated_at
  `, scope.TenantID(), rec.ID, rec.State, cls.RiskLevel, cls.ComplianceScore, expectedUpdatedAt).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.staleOrMissing(ctx, scope, rec.ID)
	}
	if err != nil {
		return nil, err
	}
	rec.RiskLevel = cls.RiskLevel
	rec.ComplianceScore = cls.ComplianceScore

	var emitted []EmittedTask
	for _, draft := range cls.RequiredTasks {
		var taskID string
		var inserted bool
		err := tx.QueryRow(ctx, `
      INSERT INTO compliance_tasks (tenant_id, record_id, artifact_type, legal_basis_ref, due_in_days, priority, status)
      VALUES ($1,$2,$3,$4,$5,$6,'pending')
      ON CONFLICT (tenant_id, record_id, artifact_type) DO UPDATE
        SET due_in_days = EXCLUDED.due_in_days,
            priority = EXCLUDED.priority,
            updated_at = now()
        WHERE compliance_tasks.status = 'pending'
      RETURNING id, (xmax = 0)
    `, scope.TenantID(), rec.ID, draft.ArtifactType, draft.LegalBasisRef, draft.DueInDays, draft.Priority).Scan(&taskID, &inserted)
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict row exists but is past pending; its history stays as is.
			if err := tx.QueryRow(ctx, `
        SELECT id FROM compliance_tasks
        WHERE tenant_id = $1 AND record_id = $2 AND artifact_type = $3
      `, scope.TenantID(), rec.ID, draft.ArtifactType).Scan(&taskID); err != nil {
				return nil, err
			}
			inserted = false
		} else if err != nil {
			return nil, err
		}
		emitted = append(emitted, EmittedTask{ID: taskID, ArtifactType: draft.ArtifactType, Created: inserted})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return emitted, nil
}

func (s *Store) OpenTaskCount(ctx context.Context, scope tenant.Scope, recordID string) (int, error) {
	if err := scope.Require(); err != nil {
		return 0, err
	}
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM compliance_tasks
    WHERE tenant_id = $1 AND record_id = $2 AND status IN ('pending','in_review')
  `, scope.TenantID(), recordID).Scan(&count)
	return count, err
}

// staleOrMissing distinguishes a concurrency conflict from a missing record
// after an optimistic update matched no row.
func (s *Store) staleOrMissing(ctx context.Context, scope tenant.Scope, id string) error {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM processing_activities WHERE tenant_id = $1 AND id = $2
  `, scope.TenantID(), id).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
