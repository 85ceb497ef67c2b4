// Package capability decides whether the acting user may edit graphs.
//
// When a passphrase hash is configured, the passphrase is always required
// and a configured email allowlist further restricts who may present it.
// An allowlist without a hash trusts the local user's claimed email.
package capability

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/matsen/blueprint/internal/config"
)

// Environment variables that carry credentials.
const (
	EnvAdminKey   = "BPG_ADMIN_KEY"
	EnvAdminEmail = "BPG_ADMIN_EMAIL"
)

// ErrNotAuthorized is returned when no credential unlocks edit mode.
var ErrNotAuthorized = errors.New("edit mode requires the admin passphrase and, when an allowlist is set, an authorized email")

// Credentials are what the caller presents.
type Credentials struct {
	Passphrase string
	Email      string
}

// Gate checks credentials against the admin configuration.
type Gate struct {
	hash   []byte
	emails map[string]bool
}

// NewGate builds a gate from the admin section of the global config.
func NewGate(cfg config.AdminConfig) *Gate {
	g := &Gate{emails: make(map[string]bool, len(cfg.Emails))}
	if cfg.PassphraseHash != "" {
		g.hash = []byte(cfg.PassphraseHash)
	}
	for _, e := range cfg.Emails {
		if e = normalizeEmail(e); e != "" {
			g.emails[e] = true
		}
	}
	return g
}

// Configured reports whether any credential could unlock the gate.
func (g *Gate) Configured() bool {
	return len(g.hash) > 0 || len(g.emails) > 0
}

// Check returns nil when the credentials unlock edit mode.
func (g *Gate) Check(c Credentials) error {
	if !g.Configured() {
		return ErrNotAuthorized
	}
	if len(g.emails) > 0 && !g.emails[normalizeEmail(c.Email)] {
		return ErrNotAuthorized
	}
	if len(g.hash) > 0 {
		if c.Passphrase == "" || bcrypt.CompareHashAndPassword(g.hash, []byte(c.Passphrase)) != nil {
			return ErrNotAuthorized
		}
	}
	return nil
}

// Editable is Check as a boolean.
func (g *Gate) Editable(c Credentials) bool {
	return g.Check(c) == nil
}

// HashPassphrase returns the bcrypt hash to store in the admin config.
func HashPassphrase(passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("passphrase is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
