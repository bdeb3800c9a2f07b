package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"lpdp/internal/domain/tenant"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// RegisterRows returns every activity of the tenant, ordered by name, for
// the register exports. The register includes inactive records on purpose;
// the trail of ceased processing is part of the register.
func (s *Store) RegisterRows(ctx context.Context, scope tenant.Scope) ([]RegisterRow, error) {
	if err := scope.Require(); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `
        SELECT name, responsible_area, responsible_person, purposes, legal_basis,
               subject_categories, sensitive_categories, minors_data,
               transfer_countries, retention_period, state, risk_level,
               compliance_score, updated_at
        FROM processing_activities
        WHERE tenant_id = $1
        ORDER BY name`,
		scope.TenantID())
	if err != nil {
		return nil, fmt.Errorf("register rows: %w", err)
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var r RegisterRow
		err := rows.Scan(
			&r.Name, &r.ResponsibleArea, &r.ResponsiblePerson, &r.Purposes, &r.LegalBasis,
			&r.SubjectCategories, &r.SensitiveCategories, &r.MinorsData,
			&r.TransferCountries, &r.RetentionPeriod, &r.State, &r.RiskLevel,
			&r.ComplianceScore, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan register row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Dashboard(ctx context.Context, scope tenant.Scope) (Dashboard, error) {
	if err := scope.Require(); err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{
		RecordsByState: map[string]int{},
		RecordsByRisk:  map[string]int{},
		TasksByStatus:  map[string]int{},
	}

	rows, err := s.DB.Query(ctx,
		`SELECT state, risk_level, COUNT(*), COALESCE(AVG(compliance_score), 0)::int
         FROM processing_activities WHERE tenant_id = $1 GROUP BY state, risk_level`,
		scope.TenantID())
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard records: %w", err)
	}
	defer rows.Close()
	scoreSum, scoreGroups := 0, 0
	for rows.Next() {
		var state, risk string
		var count, avg int
		if err := rows.Scan(&state, &risk, &count, &avg); err != nil {
			return Dashboard{}, fmt.Errorf("scan dashboard record group: %w", err)
		}
		d.RecordsByState[state] += count
		d.RecordsByRisk[risk] += count
		d.TotalRecords += count
		scoreSum += avg * count
		scoreGroups += count
	}
	if err := rows.Err(); err != nil {
		return Dashboard{}, err
	}
	if scoreGroups > 0 {
		d.AverageScore = scoreSum / scoreGroups
	}

	taskRows, err := s.DB.Query(ctx,
		`SELECT status, COUNT(*),
                COUNT(*) FILTER (WHERE status IN ('pending','in_review')
                                 AND created_at + make_interval(days => due_in_days) < now())
         FROM compliance_tasks WHERE tenant_id = $1 GROUP BY status`,
		scope.TenantID())
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var status string
		var count, overdue int
		if err := taskRows.Scan(&status, &count, &overdue); err != nil {
			return Dashboard{}, fmt.Errorf("scan dashboard task group: %w", err)
		}
		d.TasksByStatus[status] = count
		if status == "pending" || status == "in_review" {
			d.OpenTasks += count
		}
		d.OverdueTasks += overdue
	}
	if err := taskRows.Err(); err != nil {
		return Dashboard{}, err
	}

	err = s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE tenant_id = $1 AND delivery_status = 'failed'`,
		scope.TenantID()).Scan(&d.FailedDeliveries)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard deliveries: %w", err)
	}

	return d, nil
}
