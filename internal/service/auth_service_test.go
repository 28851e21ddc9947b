package service

import (
	"errors"
	"strings"
	"testing"
)

func TestLogin(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	resp, err := svc.Login("admin", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if !strings.HasPrefix(resp.HostID, "host_") {
		t.Errorf("host id = %q, want host_ prefix", resp.HostID)
	}

	claims, err := svc.ValidateHostToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.HostID != resp.HostID {
		t.Errorf("claims host id = %q, want %q", claims.HostID, resp.HostID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	for _, tt := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"wrong", "secret"},
		{"", ""},
	} {
		if _, err := svc.Login(tt.user, tt.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): err = %v, want ErrInvalidCredentials", tt.user, tt.pass, err)
		}
	}
}

func TestPlayerTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")

	token, err := svc.GeneratePlayerToken("ABC123", "p1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidatePlayerToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.GameCode != "ABC123" || claims.PlayerID != "p1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-signing-key")
	other := NewAuthService("admin", "secret", "a-different-key")

	token, err := other.GeneratePlayerToken("ABC123", "p1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidatePlayerToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign player token: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateHostToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want ErrInvalidToken", err)
	}
}
