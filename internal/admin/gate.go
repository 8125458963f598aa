// Package admin holds the owner-only operations: the password gate and the
// content update that replaces the stored portfolio document.
package admin

import (
	"crypto/subtle"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

const (
	MsgPasswordFormat  = "Invalid password format."
	MsgInvalidPassword = "Invalid password."
	MsgLoginOK         = "Login successful."
)

// placeholderSecrets are values shipped in sample configuration. A gate
// configured with one of them rejects everything.
var placeholderSecrets = []string{
	"replace-with-your-secret-password",
	"password",
}

var (
	ErrPasswordFormat  = errors.New("password is required")
	ErrNotConfigured   = errors.New("content update password is not configured")
	ErrInvalidPassword = errors.New("invalid password")
)

// Gate checks the shared admin secret.
type Gate struct {
	secret     []byte
	configured bool
}

func NewGate(secret string) *Gate {
	secret = strings.TrimSpace(secret)
	configured := secret != ""
	for _, p := range placeholderSecrets {
		if secret == p {
			configured = false
		}
	}
	return &Gate{secret: []byte(secret), configured: configured}
}

// Configured is false when the secret is unset or a known placeholder.
func (g *Gate) Configured() bool { return g.configured }

// Check returns nil when password matches the secret. The comparison is
// constant-time; an unconfigured gate rejects every attempt.
func (g *Gate) Check(password string) error {
	if err := validation.Validate(password, validation.Required); err != nil {
		return ErrPasswordFormat
	}
	if !g.configured {
		return ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), g.secret) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// GateResult maps a Check error to the envelope shown to the caller.
// An unconfigured secret is reported like a wrong password.
func GateResult(err error) domain.Result {
	switch {
	case err == nil:
		return domain.Ok(MsgLoginOK)
	case errors.Is(err, ErrPasswordFormat):
		return domain.Fail(MsgPasswordFormat)
	default:
		return domain.Fail(MsgInvalidPassword)
	}
}
