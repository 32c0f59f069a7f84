package token

import (
	"errors"
	"testing"
	"time"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

func TestIssuer_AccessRoundTrip(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)

	signed, err := issuer.IssueAccess("user-1", []string{"admin", "user"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	claims, err := issuer.VerifyAccess(signed)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID() != "user-1" {
		t.Fatalf("unexpected subject: %q", claims.UserID())
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
}

func TestIssuer_RefreshRoundTrip(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)

	signed, err := issuer.IssueRefresh("user-2", []string{"user"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	claims, err := issuer.VerifyRefresh(signed)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if claims.UserID() != "user-2" {
		t.Fatalf("unexpected subject: %q", claims.UserID())
	}
}

func TestIssuer_CrossVerificationFails(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, _ := issuer.IssueAccess("user-1", nil)
	refresh, _ := issuer.IssueRefresh("user-1", nil)

	if _, err := issuer.VerifyRefresh(access); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("access token passed refresh verification: %v", err)
	}
	if _, err := issuer.VerifyAccess(refresh); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("refresh token passed access verification: %v", err)
	}
}

func TestIssuer_ExpiredToken(t *testing.T) {
	issuer := &Issuer{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     -time.Minute,
		refreshTTL:    time.Hour,
	}

	signed, err := issuer.IssueAccess("user-1", nil)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if _, err := issuer.VerifyAccess(signed); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestIssuer_TamperedToken(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	other := NewIssuer("other-secret", "refresh-secret", time.Minute, time.Hour)

	signed, _ := other.IssueAccess("user-1", nil)
	if _, err := issuer.VerifyAccess(signed); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("token signed with wrong secret accepted: %v", err)
	}

	if _, err := issuer.VerifyAccess("not-a-jwt"); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("garbage token accepted: %v", err)
	}
}

func TestIssuer_DefaultTTLs(t *testing.T) {
	issuer := NewIssuer("a", "b", 0, 0)
	if issuer.RefreshTTL() != 7*24*time.Hour {
		t.Fatalf("unexpected default refresh TTL: %v", issuer.RefreshTTL())
	}
	if issuer.accessTTL != 15*time.Minute {
		t.Fatalf("unexpected default access TTL: %v", issuer.accessTTL)
	}
}
