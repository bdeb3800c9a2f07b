package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lpdp/internal/domain/auth"
)

const testSecret = "test-secret"

func principalFrom(t *testing.T, handler http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthPopulatesPrincipal(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID:    "u-1",
		TenantIDs: []string{"t-1", "t-2"},
		RoleID:    "r-1",
		RoleName:  auth.RoleDPO,
	}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	var got auth.Principal
	var found bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = GetPrincipal(r.Context())
	}))

	principalFrom(t, handler, "Bearer "+token)
	if !found {
		t.Fatal("expected a principal in context")
	}
	if got.UserID != "u-1" || got.RoleName != auth.RoleDPO || len(got.TenantIDs) != 2 {
		t.Fatalf("principal mismatch: %+v", got)
	}
}

func TestAuthLeavesInvalidTokensAnonymous(t *testing.T) {
	cases := map[string]string{
		"no header":     "",
		"not bearer":    "Basic abc",
		"garbage token": "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var found bool
			handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, found = GetPrincipal(r.Context())
			}))
			principalFrom(t, handler, header)
			if found {
				t.Fatal("invalid credentials must not yield a principal")
			}
		})
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	var found bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = GetPrincipal(r.Context())
	}))
	principalFrom(t, handler, "Bearer "+token)
	if found {
		t.Fatal("token signed with another secret must not authenticate")
	}
}
