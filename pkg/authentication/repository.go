package authentication

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakhura/loginapp/pkg/logging"
	"github.com/sakhura/loginapp/pkg/users"
)

// Repository authenticates against the local user store and falls back to a
// secondary source when the store has no active match.
type Repository struct {
	store  *users.Store
	remote RemoteSource
}

// NewRepository creates a new Repository. A nil remote means no secondary source.
func NewRepository(store *users.Store, remote RemoteSource) (*Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if remote == nil {
		remote = NoRemote
	}

	return &Repository{
		store:  store,
		remote: remote,
	}, nil
}

// Authenticate checks the credential pair. It never returns an error; every
// failure is reported as a Failure outcome.
func (r *Repository) Authenticate(ctx context.Context, username, password string) Outcome {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return Failure{Message: MsgBlankInput, Err: ErrBlankInput}
	}

	if user, ok := r.store.FindByCredentials(username, password); ok && user.Active {
		logging.App.Debug("Authenticated against local store", "username", username, "id", user.ID)
		return Success{User: user}
	}

	remoteUser, err := r.remote.Authenticate(ctx, username, password)
	if err != nil {
		logging.App.Debug("Secondary authenticator failed", "username", username, "error", err)
		return Failure{
			Message: msgUpstreamPrefix + err.Error(),
			Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
		}
	}
	if remoteUser == nil {
		return Failure{Message: MsgInvalidCredentials, Err: ErrCredentialMismatch}
	}

	// Cache the remote user locally; a failed write does not void the success.
	if err := r.store.Insert(*remoteUser); err != nil {
		logging.App.Debug("Could not cache remote user", "username", remoteUser.Username, "id", remoteUser.ID, "error", err)
	} else {
		logging.App.Debug("Cached remote user", "username", remoteUser.Username, "id", remoteUser.ID)
	}
	return Success{User: *remoteUser}
}

// ListUsers returns a snapshot of every known user
func (r *Repository) ListUsers() []users.User {
	return r.store.ListAll()
}

// CreateUser adds u to the store and reports whether it was added
func (r *Repository) CreateUser(u users.User) bool {
	if err := r.store.Insert(u); err != nil {
		logging.App.Debug("Create user rejected", "id", u.ID, "username", u.Username, "error", err)
		return false
	}
	return true
}

// UpdateUser replaces the record with u.ID and reports whether it existed
func (r *Repository) UpdateUser(u users.User) bool {
	if err := r.store.Replace(u); err != nil {
		logging.App.Debug("Update user rejected", "id", u.ID, "error", err)
		return false
	}
	return true
}

// DeleteUser removes the record with the given id and reports whether it existed
func (r *Repository) DeleteUser(id int) bool {
	if err := r.store.Remove(id); err != nil {
		logging.App.Debug("Delete user rejected", "id", id, "error", err)
		return false
	}
	return true
}
