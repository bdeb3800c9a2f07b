package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{
		UserID:    "u-1",
		TenantIDs: []string{"t-1", "t-2"},
		RoleID:    "r-1",
		RoleName:  RoleDPO,
	}
	token, err := GenerateToken("secret", claims, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.UserID != "u-1" || parsed.RoleName != RoleDPO {
		t.Fatalf("claims mangled: %+v", parsed)
	}
	if len(parsed.TenantIDs) != 2 || parsed.TenantIDs[0] != "t-1" {
		t.Fatalf("tenant memberships mangled: %v", parsed.TenantIDs)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword(hash, "s3cret!"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}

func TestPrincipalMembership(t *testing.T) {
	p := Principal{UserID: "u-1", TenantIDs: []string{"a", "b"}, RoleName: RoleAnalyst}
	if !p.MemberOf("a") || p.MemberOf("c") {
		t.Fatal("membership check wrong")
	}
	if p.IsSystemAdmin() {
		t.Fatal("analyst is not a system admin")
	}
}
