package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService(now func() time.Time) *TokenService {
	svc := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	if now != nil {
		svc.WithNowFunc(now)
	}
	return svc
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	svc := newTestTokenService(nil)

	token, expiresAt, err := svc.Issue("user-1", TokenKindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := svc.Verify(token, TokenKindAccess)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1 got %q", claims.Subject)
	}
	if claims.Kind != TokenKindAccess {
		t.Fatalf("expected access kind got %q", claims.Kind)
	}
}

func TestTokenServiceVerifyExpired(t *testing.T) {
	now := time.Now().UTC()
	svc := newTestTokenService(func() time.Time { return now })

	token, _, err := svc.Issue("user-1", TokenKindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Move the clock past the access TTL.
	now = now.Add(15*time.Minute + time.Second)

	if _, err := svc.Verify(token, TokenKindAccess); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired got %v", err)
	}
}

func TestTokenServiceVerifyKindMismatch(t *testing.T) {
	svc := newTestTokenService(nil)

	access, _, err := svc.Issue("user-1", TokenKindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(access, TokenKindRefresh); !errors.Is(err, ErrTokenKindMismatch) {
		t.Fatalf("expected ErrTokenKindMismatch got %v", err)
	}

	refresh, _, err := svc.Issue("user-1", TokenKindRefresh)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(refresh, TokenKindAccess); !errors.Is(err, ErrTokenKindMismatch) {
		t.Fatalf("expected ErrTokenKindMismatch got %v", err)
	}
}

func TestTokenServiceVerifyInvalid(t *testing.T) {
	svc := newTestTokenService(nil)

	if _, err := svc.Verify("not-a-token", TokenKindAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid got %v", err)
	}

	// A token signed with different secrets must not verify.
	other := NewTokenService("other-access", "other-refresh", 15*time.Minute, 24*time.Hour)
	forged, _, err := other.Issue("user-1", TokenKindAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(forged, TokenKindAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid got %v", err)
	}
}

func TestTokenServiceIssueRequiresUserID(t *testing.T) {
	svc := newTestTokenService(nil)
	if _, _, err := svc.Issue("", TokenKindAccess); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
