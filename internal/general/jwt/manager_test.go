package jwt

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"delivery-dispatch/internal/domain/user"
)

func TestIssueAndValidateRoundTrip(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, issued, err := mgr.IssueUserToken("user-1", user.RoleDriver)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Subject != "user-1" || issued.Role != user.RoleDriver {
		t.Fatalf("claims = %+v", issued)
	}

	_, parsed, err := mgr.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Subject != "user-1" || parsed.Role != user.RoleDriver {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager("secret-a", time.Hour).IssueUserToken("user-1", user.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewManager("secret-b", time.Hour).ParseAndValidate(token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)
	token, _, err := mgr.IssueUserToken("user-1", user.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := mgr.ParseAndValidate(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestIssueRejectsInvalidRole(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	if _, _, err := mgr.IssueUserToken("user-1", user.Role("PILOT")); err == nil {
		t.Fatal("expected role error")
	}
}

func TestFromAuthorization(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if _, err := FromAuthorization(r); !errors.Is(err, ErrNoAuthHeader) {
		t.Fatalf("got %v", err)
	}

	r.Header.Set("Authorization", "Bearer abc123")
	token, err := FromAuthorization(r)
	if err != nil || token != "abc123" {
		t.Fatalf("got %q, %v", token, err)
	}

	// websocket clients pass the token as a query parameter
	q := httptest.NewRequest(http.MethodGet, "/ws?token=xyz789", nil)
	token, err = FromAuthorization(q)
	if err != nil || token != "xyz789" {
		t.Fatalf("got %q, %v", token, err)
	}
}

func TestRoleAllowed(t *testing.T) {
	cl := NewUserClaims("user-1", user.RoleDriver, time.Hour)
	if err := RoleAllowed(cl, user.RoleCustomer, user.RoleDriver); err != nil {
		t.Fatal(err)
	}
	if err := RoleAllowed(cl, user.RoleAdmin); !errors.Is(err, ErrRoleForbidden) {
		t.Fatalf("got %v", err)
	}
}
