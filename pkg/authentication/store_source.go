package authentication

import (
	"context"
	"fmt"

	"github.com/sakhura/loginapp/pkg/users"
)

// StoreSource is a secondary authenticator backed by a separate user store,
// such as a shared directory loaded from its own seed file.
type StoreSource struct {
	store *users.Store
}

// NewStoreSource creates a StoreSource over store
func NewStoreSource(store *users.Store) (*StoreSource, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &StoreSource{store: store}, nil
}

// Authenticate implements RemoteSource. Inactive matches are not returned.
func (s *StoreSource) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, ok := s.store.FindByCredentials(username, password)
	if !ok || !user.Active {
		return nil, nil
	}
	return &user, nil
}
