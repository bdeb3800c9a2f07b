package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lpdp/internal/domain/auth"
	"lpdp/internal/domain/tenant"
	"lpdp/internal/transport/http/middleware"
)

const scopeTestSecret = "scope-test-secret"

func requestAs(t *testing.T, claims auth.Claims, tenantID string) (*httptest.ResponseRecorder, tenant.Scope, bool) {
	t.Helper()
	token, err := auth.GenerateToken(scopeTestSecret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	var scope tenant.Scope
	var ok bool
	handler := middleware.Auth(scopeTestSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, _, ok = TenantScope(w, r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, scope, ok
}

func TestTenantScopeSingleMembership(t *testing.T) {
	_, scope, ok := requestAs(t, auth.Claims{UserID: "u-1", TenantIDs: []string{"t-1"}}, "")
	if !ok {
		t.Fatal("single membership should resolve without a header")
	}
	if scope.TenantID() != "t-1" {
		t.Fatalf("expected scope for t-1, got %q", scope.TenantID())
	}
}

func TestTenantScopeAmbiguousWithoutHeader(t *testing.T) {
	rec, _, ok := requestAs(t, auth.Claims{UserID: "u-1", TenantIDs: []string{"t-1", "t-2"}}, "")
	if ok {
		t.Fatal("two memberships without a selection must not resolve")
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for ambiguous tenant, got %d", rec.Code)
	}
}

func TestTenantScopeHeaderSelectsMembership(t *testing.T) {
	_, scope, ok := requestAs(t, auth.Claims{UserID: "u-1", TenantIDs: []string{"t-1", "t-2"}}, "t-2")
	if !ok {
		t.Fatal("explicit selection of a held membership should resolve")
	}
	if scope.TenantID() != "t-2" {
		t.Fatalf("expected scope for t-2, got %q", scope.TenantID())
	}
}

func TestTenantScopeRejectsForeignHeader(t *testing.T) {
	rec, _, ok := requestAs(t, auth.Claims{UserID: "u-1", TenantIDs: []string{"t-1"}}, "t-9")
	if ok {
		t.Fatal("selecting a tenant the caller is not a member of must fail")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a foreign tenant, got %d", rec.Code)
	}
}

func TestTenantScopeRequiresAuthentication(t *testing.T) {
	var ok bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok = TenantScope(w, r)
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if ok {
		t.Fatal("anonymous requests must not resolve a scope")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a principal, got %d", rec.Code)
	}
}
