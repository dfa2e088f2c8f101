package token

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	m := NewManager("super-secret", "gotodos", time.Hour)

	signed, err := m.Issue("user-123", "session-456", time.Now())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("user mismatch: got %q", claims.UserID)
	}
	if claims.SessionID != "session-456" {
		t.Fatalf("session mismatch: got %q", claims.SessionID)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewManager("right-secret", "gotodos", time.Hour).Issue("u1", "s1", time.Now())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewManager("wrong-secret", "gotodos", time.Hour).Parse(signed); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", "gotodos", time.Hour)

	signed, err := m.Issue("u1", "s1", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Parse(signed); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", "gotodos", time.Hour)
	if _, err := m.Parse("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}

func TestIssue_DistinctSessionsDistinctTokens(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", "gotodos", time.Hour)
	now := time.Now()

	first, err := m.Issue("u1", "s1", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	second, err := m.Issue("u1", "s2", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if first == second {
		t.Fatal("tokens for different sessions must differ")
	}
}
