package game

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role is the privilege tier a credential resolves to. Ordered so that a
// required role can be compared with >=.
type Role int

const (
	RoleNone Role = iota
	RoleMember
	RoleAdmin
)

// AuthView is the slice of state a Verifier needs: one team's secrets plus
// the global master password. Verification itself is a pure check.
type AuthView struct {
	TeamPassword   string
	AdminPassword  string
	Admin          string
	MasterPassword string
}

// Verifier resolves a supplied credential (and caller name, for the legacy
// mode) to a role. Implementations must not mutate anything.
type Verifier interface {
	Verify(view AuthView, credential, caller string) Role
}

// PasswordVerifier is the shared-secret mode: the team admin password or the
// master password grant admin, the team password grants member. Stored
// secrets carrying a bcrypt prefix are compared as hashes, so individual
// secrets can be upgraded without touching any mutation logic.
type PasswordVerifier struct{}

func (PasswordVerifier) Verify(view AuthView, credential, _ string) Role {
	switch {
	case secretMatches(view.AdminPassword, credential),
		secretMatches(view.MasterPassword, credential):
		return RoleAdmin
	case secretMatches(view.TeamPassword, credential):
		return RoleMember
	}
	return RoleNone
}

// LegacyVerifier is the identity mode from the earliest revision of the
// system: whoever claims the team admin's name is the admin. No passwords.
type LegacyVerifier struct{}

func (LegacyVerifier) Verify(view AuthView, _, caller string) Role {
	if caller != "" && caller == view.Admin {
		return RoleAdmin
	}
	return RoleNone
}

// NewVerifier maps a configured auth mode to its Verifier.
func NewVerifier(mode string) (Verifier, error) {
	switch mode {
	case "password":
		return PasswordVerifier{}, nil
	case "legacy":
		return LegacyVerifier{}, nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", mode)
}

func secretMatches(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
