package game

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordVerifier(t *testing.T) {
	view := AuthView{
		TeamPassword:   "teamomri2024",
		AdminPassword:  "omriadmin2024",
		Admin:          "Omri",
		MasterPassword: "admin2024",
	}
	v := PasswordVerifier{}

	tests := []struct {
		name       string
		credential string
		want       Role
	}{
		{"team password grants member", "teamomri2024", RoleMember},
		{"admin password grants admin", "omriadmin2024", RoleAdmin},
		{"master password grants admin", "admin2024", RoleAdmin},
		{"wrong password grants nothing", "guess", RoleNone},
		{"empty credential grants nothing", "", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verify(view, tt.credential, "Pita"); got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.credential, got, tt.want)
			}
		})
	}
}

func TestPasswordVerifierIgnoresCallerName(t *testing.T) {
	view := AuthView{TeamPassword: "pw", AdminPassword: "apw", Admin: "Omri"}

	// Claiming the admin's name without the password is not enough.
	if got := (PasswordVerifier{}).Verify(view, "", "Omri"); got != RoleNone {
		t.Errorf("expected RoleNone for identity-only claim, got %v", got)
	}
}

func TestPasswordVerifierBcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	view := AuthView{AdminPassword: string(hash)}
	v := PasswordVerifier{}

	if got := v.Verify(view, "s3cret", ""); got != RoleAdmin {
		t.Errorf("hashed admin password should grant admin, got %v", got)
	}
	// Supplying the literal hash must not match either branch.
	if got := v.Verify(view, string(hash), ""); got != RoleNone {
		t.Errorf("literal hash string should not authorize, got %v", got)
	}
}

func TestLegacyVerifier(t *testing.T) {
	view := AuthView{Admin: "Omri", TeamPassword: "unused"}
	v := LegacyVerifier{}

	if got := v.Verify(view, "", "Omri"); got != RoleAdmin {
		t.Errorf("admin identity should grant admin, got %v", got)
	}
	if got := v.Verify(view, "unused", "Pita"); got != RoleNone {
		t.Errorf("non-admin caller should grant nothing, got %v", got)
	}
	if got := v.Verify(view, "", ""); got != RoleNone {
		t.Errorf("empty caller should grant nothing, got %v", got)
	}
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier("password"); err != nil {
		t.Errorf("password mode: %v", err)
	}
	if _, err := NewVerifier("legacy"); err != nil {
		t.Errorf("legacy mode: %v", err)
	}
	if _, err := NewVerifier("oauth"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestIsGlobalAdmin(t *testing.T) {
	s := newTestStore(t)
	v := PasswordVerifier{}

	if !s.IsGlobalAdmin(v, "omriadmin2024", "") {
		t.Error("team admin password should grant global admin")
	}
	if !s.IsGlobalAdmin(v, "admin2024", "") {
		t.Error("master password should grant global admin")
	}
	if s.IsGlobalAdmin(v, "teamomri2024", "") {
		t.Error("member password must not grant global admin")
	}

	legacy := LegacyVerifier{}
	if !s.IsGlobalAdmin(legacy, "", "Yoad") {
		t.Error("legacy mode: team admin name should grant global admin")
	}
	if s.IsGlobalAdmin(legacy, "", "Pita") {
		t.Error("legacy mode: regular member must not grant global admin")
	}
}
