// README: JWT authority round-trip and rejection tests.
package infra

import (
	"context"
	"testing"
	"time"
)

func TestIssueAndVerifyToken(t *testing.T) {
	a := NewJWTAuthority("test-secret", "fleetrent", time.Hour)

	signed, expiresAt, err := a.IssueToken("user-1", "owner")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected future expiry")
	}

	tok, err := a.VerifyToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if tok.UID != "user-1" {
		t.Errorf("uid = %q, want user-1", tok.UID)
	}
	if tok.Role != "owner" {
		t.Errorf("role = %q, want owner", tok.Role)
	}
}

func TestIssueToken_EmptySubject(t *testing.T) {
	a := NewJWTAuthority("test-secret", "fleetrent", time.Hour)
	if _, _, err := a.IssueToken("", "customer"); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	a := NewJWTAuthority("secret-a", "fleetrent", time.Hour)
	b := NewJWTAuthority("secret-b", "fleetrent", time.Hour)

	signed, _, err := a.IssueToken("user-1", "customer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.VerifyToken(context.Background(), signed); err == nil {
		t.Fatal("expected verification to fail with the wrong secret")
	}
}

func TestVerifyToken_WrongIssuer(t *testing.T) {
	a := NewJWTAuthority("secret", "someone-else", time.Hour)
	b := NewJWTAuthority("secret", "fleetrent", time.Hour)

	signed, _, err := a.IssueToken("user-1", "customer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.VerifyToken(context.Background(), signed); err == nil {
		t.Fatal("expected verification to fail with the wrong issuer")
	}
}
