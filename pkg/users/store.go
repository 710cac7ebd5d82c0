package users

import (
	"fmt"
	"sync"

	"github.com/sakhura/loginapp/pkg/logging"
)

// Store holds the set of known users in insertion order.
//
// Mutations are serialized by a single lock. Reads copy a snapshot under the
// read lock and do their comparisons after releasing it.
type Store struct {
	mu    sync.RWMutex
	users []User
}

// NewStore creates a Store seeded with initial. Records that would break id or
// username uniqueness are skipped.
func NewStore(initial []User) *Store {
	s := &Store{
		users: make([]User, 0, len(initial)),
	}
	for _, u := range initial {
		if err := s.Insert(u); err != nil {
			logging.App.Debug("Skipping seed user", "id", u.ID, "username", u.Username, "error", err)
		}
	}
	return s
}

// NewDefaultStore creates a Store seeded with DefaultUsers
func NewDefaultStore() *Store {
	return NewStore(DefaultUsers())
}

// snapshot returns a copy of the current records
func (s *Store) snapshot() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// FindByCredentials returns the first user whose username matches ignoring
// case and whose password matches exactly. It does not look at Active.
func (s *Store) FindByCredentials(username, password string) (User, bool) {
	for _, u := range s.snapshot() {
		if u.SameUsername(username) && u.Password == password {
			return u, true
		}
	}
	return User{}, false
}

// FindByID returns the user with the given id
func (s *Store) FindByID(id int) (User, bool) {
	for _, u := range s.snapshot() {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// FindByUsername returns the user with the given username, ignoring case
func (s *Store) FindByUsername(username string) (User, bool) {
	for _, u := range s.snapshot() {
		if u.SameUsername(username) {
			return u, true
		}
	}
	return User{}, false
}

// ListAll returns a copy of every user. Changing the result does not affect the store.
func (s *Store) ListAll() []User {
	return s.snapshot()
}

// Len returns the number of users
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Insert adds u unless its id or username is already taken. Usernames are
// compared ignoring case, like every lookup. u.Active is stored as given.
func (s *Store) Insert(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.ID == u.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateID, u.ID)
		}
		if existing.SameUsername(u.Username) {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, u.Username)
		}
	}
	s.users = append(s.users, u)
	return nil
}

// Replace overwrites the record with u.ID. Uniqueness is not re-checked.
func (s *Store) Replace(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUserNotFound, u.ID)
}

// Remove deletes the record with the given id
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUserNotFound, id)
}

// Create is Insert reporting only success. See NewUser for an active record.
func (s *Store) Create(u User) bool {
	return s.Insert(u) == nil
}

// Update is Replace reporting only success
func (s *Store) Update(u User) bool {
	return s.Replace(u) == nil
}

// Delete is Remove reporting only success
func (s *Store) Delete(id int) bool {
	return s.Remove(id) == nil
}
