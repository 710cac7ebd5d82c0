package login

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sakhura/loginapp/pkg/authentication"
)

const (
	// MinUsernameLength is the shortest accepted username, in characters
	MinUsernameLength = 3
	// MinPasswordLength is the shortest accepted password, in characters
	MinPasswordLength = 6
)

// User-facing failure messages
const (
	MsgUsernameTooShort = "El usuario debe tener al menos 3 caracteres"
	MsgPasswordTooShort = "La contraseña debe tener al menos 6 caracteres"
	MsgAccountLocked    = "Usuario temporalmente bloqueado"
)

var (
	// ErrValidation is the cause of a Failure for input that breaks a shape rule
	ErrValidation = errors.New("validation failed")

	// ErrAccountLocked is the cause of a Failure for a locked account
	ErrAccountLocked = errors.New("account locked")
)

// LockChecker decides whether an account is temporarily locked
type LockChecker interface {
	IsLocked(ctx context.Context, username string) bool
}

type neverLocked struct{}

func (neverLocked) IsLocked(context.Context, string) bool { return false }

// NeverLocked reports every account as unlocked. It is the default until a
// lockout policy exists.
var NeverLocked LockChecker = neverLocked{}

// Policy validates a credential pair and delegates to an Authenticator
type Policy struct {
	auth authentication.Authenticator
	lock LockChecker
}

// NewPolicy creates a Policy. A nil lock uses NeverLocked.
func NewPolicy(auth authentication.Authenticator, lock LockChecker) (*Policy, error) {
	if auth == nil {
		return nil, fmt.Errorf("authenticator is required")
	}
	if lock == nil {
		lock = NeverLocked
	}
	return &Policy{
		auth: auth,
		lock: lock,
	}, nil
}

// Execute applies the rules in order and stops at the first one that fails.
// When all pass, the Authenticator's outcome is returned as is.
func (p *Policy) Execute(ctx context.Context, username, password string) authentication.Outcome {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return authentication.Failure{Message: MsgUsernameTooShort, Err: ErrValidation}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return authentication.Failure{Message: MsgPasswordTooShort, Err: ErrValidation}
	}
	if p.lock.IsLocked(ctx, username) {
		return authentication.Failure{Message: MsgAccountLocked, Err: ErrAccountLocked}
	}
	return p.auth.Authenticate(ctx, username, password)
}
