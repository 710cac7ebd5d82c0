package authentication

import (
	"context"

	"github.com/sakhura/loginapp/pkg/users"
)

// Outcome is the result of an authentication attempt. It is either a
// Success or a Failure; callers should type-switch on both.
type Outcome interface {
	outcome()
}

// Success carries the authenticated user
type Success struct {
	User users.User
}

// Failure carries a user-facing message and the classified cause
type Failure struct {
	Message string
	Err     error
}

func (Success) outcome() {}
func (Failure) outcome() {}

// Error implements error so a Failure can be returned where an error is expected
func (f Failure) Error() string {
	return f.Message
}

// Unwrap exposes the classified cause
func (f Failure) Unwrap() error {
	return f.Err
}

// Authenticator produces an Outcome for a credential pair
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) Outcome
}

// RemoteSource is a secondary authenticator consulted when the local store has
// no active match. A nil user with a nil error means the source does not know
// the credentials.
type RemoteSource interface {
	Authenticate(ctx context.Context, username, password string) (*users.User, error)
}

// RemoteFunc adapts a function to RemoteSource
type RemoteFunc func(ctx context.Context, username, password string) (*users.User, error)

// Authenticate implements RemoteSource
func (f RemoteFunc) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	return f(ctx, username, password)
}

type noRemote struct{}

func (noRemote) Authenticate(context.Context, string, string) (*users.User, error) {
	return nil, nil
}

// NoRemote is the absent secondary authenticator. It never knows any user.
var NoRemote RemoteSource = noRemote{}
