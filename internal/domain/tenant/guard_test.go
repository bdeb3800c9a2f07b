package tenant

import (
	"errors"
	"testing"

	"lpdp/internal/domain/auth"
)

func TestResolveSingleMembership(t *testing.T) {
	p := auth.Principal{UserID: "u-1", TenantIDs: []string{"t-1"}}
	scope, err := Resolve(p, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.TenantID() != "t-1" {
		t.Fatalf("expected t-1, got %q", scope.TenantID())
	}
}

func TestResolveNoMembership(t *testing.T) {
	_, err := Resolve(auth.Principal{UserID: "u-1"}, "")
	if !errors.Is(err, ErrUnresolvedTenant) {
		t.Fatalf("expected ErrUnresolvedTenant, got %v", err)
	}
}

func TestResolveAmbiguousWithoutSelection(t *testing.T) {
	p := auth.Principal{UserID: "u-1", TenantIDs: []string{"t-1", "t-2"}}
	_, err := Resolve(p, "")
	if !errors.Is(err, ErrAmbiguousTenant) {
		t.Fatalf("expected ErrAmbiguousTenant, got %v", err)
	}

	scope, err := Resolve(p, "t-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.TenantID() != "t-2" {
		t.Fatalf("expected t-2, got %q", scope.TenantID())
	}
}

func TestResolveForeignSelectionRejected(t *testing.T) {
	p := auth.Principal{UserID: "u-1", TenantIDs: []string{"t-1"}}
	_, err := Resolve(p, "t-9")
	if !errors.Is(err, ErrUnauthorizedTenant) {
		t.Fatalf("expected ErrUnauthorizedTenant, got %v", err)
	}
}

func TestResolveSystemAdminSelection(t *testing.T) {
	p := auth.Principal{UserID: "u-1", RoleName: auth.RoleSystemAdmin}
	scope, err := Resolve(p, "t-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.TenantID() != "t-3" {
		t.Fatalf("expected t-3, got %q", scope.TenantID())
	}
}

func TestAuthorizeCrossTenantDenied(t *testing.T) {
	p := auth.Principal{UserID: "u-1", TenantIDs: []string{"t-b"}, RoleName: auth.RoleDPO}
	scope, err := Resolve(p, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Authorize(p, scope, "t-a") {
		t.Fatal("principal of tenant B must never be authorized for tenant A records")
	}
	if !Authorize(p, scope, "t-b") {
		t.Fatal("principal must be authorized for its own tenant")
	}
}

func TestAuthorizeSystemAdminOverride(t *testing.T) {
	p := auth.Principal{UserID: "u-1", RoleName: auth.RoleSystemAdmin}
	scope, _ := Resolve(p, "t-x")
	if !Authorize(p, scope, "t-y") {
		t.Fatal("system admin carries a cross-tenant capability")
	}
}

func TestZeroScopeFailsClosed(t *testing.T) {
	var scope Scope
	if err := scope.Require(); !errors.Is(err, ErrUnscopedQuery) {
		t.Fatalf("expected ErrUnscopedQuery, got %v", err)
	}
	if Authorize(auth.Principal{UserID: "u-1", TenantIDs: []string{"t-1"}}, scope, "t-1") {
		t.Fatal("zero scope must not authorize anything")
	}
}
