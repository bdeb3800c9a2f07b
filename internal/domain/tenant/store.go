package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, scope Scope) (Tenant, error) {
	if err := scope.Require(); err != nil {
		return Tenant{}, err
	}
	var t Tenant
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, industry, active, max_records, created_at, updated_at
    FROM tenants
    WHERE id = $1
  `, scope.TenantID()).Scan(&t.ID, &t.Name, &t.Industry, &t.Active, &t.MaxRecords, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, ErrNotFound
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, name, industry string, maxRecords int) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tenants (name, industry, active, max_records)
    VALUES ($1,$2,true,$3)
    RETURNING id
  `, name, industry, maxRecords).Scan(&id)
	return id, err
}

func (s *Store) UpdateIndustry(ctx context.Context, scope Scope, industry string) error {
	if err := scope.Require(); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE tenants SET industry = $1, updated_at = now() WHERE id = $2
  `, industry, scope.TenantID())
	return err
}

// Deactivate soft-retires a tenant. Rows are never deleted.
func (s *Store) Deactivate(ctx context.Context, scope Scope) error {
	if err := scope.Require(); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE tenants SET active = false, updated_at = now() WHERE id = $1
  `, scope.TenantID())
	return err
}

func (s *Store) AddMember(ctx context.Context, scope Scope, userID string) error {
	if err := scope.Require(); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO tenant_members (tenant_id, user_id)
    VALUES ($1,$2)
    ON CONFLICT (tenant_id, user_id) DO NOTHING
  `, scope.TenantID(), userID)
	return err
}
