package auth

import (
	"errors"
	"testing"
	"time"
)

func TestAuthenticateRoundTrip(t *testing.T) {
	authority := NewAuthority("unit-test-secret")

	token, err := authority.GenerateAccessToken("alice", "T1", RoleUser, "AC01", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	tc, err := authority.Authenticate("Bearer " + token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tc.UserID != "alice" || tc.Username != "alice" {
		t.Errorf("user = %q/%q", tc.UserID, tc.Username)
	}
	if tc.ClientID != "T1" {
		t.Errorf("client = %q", tc.ClientID)
	}
	if tc.AccountCode != "AC01" {
		t.Errorf("accountcode = %q", tc.AccountCode)
	}
	if tc.IsAdmin() {
		t.Error("regular user reported as admin")
	}
	if remaining := time.Until(tc.ExpiresAt); remaining <= 0 || remaining > time.Hour {
		t.Errorf("expiry %v not within the issued window", tc.ExpiresAt)
	}
}

func TestAuthenticateExpired(t *testing.T) {
	authority := NewAuthority("unit-test-secret")

	token, err := authority.GenerateAccessToken("alice", "T1", RoleUser, "", -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := authority.Authenticate("Bearer " + token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestAuthenticateRejectsBadHeaders(t *testing.T) {
	authority := NewAuthority("unit-test-secret")
	token, _ := authority.GenerateAccessToken("alice", "T1", RoleUser, "", 1)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"empty", "", ErrTokenMissing},
		{"no scheme", token, ErrTokenMissing},
		{"wrong scheme", "Basic " + token, ErrTokenMissing},
		{"garbage token", "Bearer not.a.jwt", ErrTokenMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := authority.Authenticate(tc.header); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token, err := NewAuthority("secret-a").GenerateAccessToken("alice", "T1", RoleUser, "", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := NewAuthority("secret-b").Authenticate("Bearer " + token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("err = %v, want ErrTokenMalformed", err)
	}
}

func TestAuthenticateRequiresClientID(t *testing.T) {
	authority := NewAuthority("unit-test-secret")

	token, err := authority.GenerateAccessToken("alice", "", RoleUser, "", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := authority.Authenticate("Bearer " + token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("err = %v, want ErrTokenMalformed", err)
	}
}

func TestIsAdminCaseInsensitive(t *testing.T) {
	for _, role := range []string{"Admin", "admin", "ADMIN"} {
		if !(TenantContext{Role: role}).IsAdmin() {
			t.Errorf("role %q not recognised as admin", role)
		}
	}
	if (TenantContext{Role: RoleUser}).IsAdmin() {
		t.Error("User role recognised as admin")
	}
}
