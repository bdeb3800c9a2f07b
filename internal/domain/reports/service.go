package reports

import (
	"context"

	"lpdp/internal/domain/tenant"
)

type Service struct {
	Store   *Store
	Tenants *tenant.Store
}

func NewService(store *Store, tenants *tenant.Store) *Service {
	return &Service{Store: store, Tenants: tenants}
}

func (s *Service) Dashboard(ctx context.Context, scope tenant.Scope) (Dashboard, error) {
	return s.Store.Dashboard(ctx, scope)
}

// Register renders the activity register in the requested format and
// returns the bytes plus the matching content type.
func (s *Service) Register(ctx context.Context, scope tenant.Scope, format string) ([]byte, string, error) {
	rows, err := s.Store.RegisterRows(ctx, scope)
	if err != nil {
		return nil, "", err
	}
	t, err := s.Tenants.Get(ctx, scope)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "xlsx":
		data, err := ExportXLSX(t.Name, rows)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case "pdf":
		data, err := ExportPDF(t.Name, rows)
		return data, "application/pdf", err
	default:
		data, err := ExportCSV(rows)
		return data, "text/csv", err
	}
}
