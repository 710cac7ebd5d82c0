package users

import "strings"

// User represents a known account. Only active users can log in; the zero
// value is inactive, so build new accounts with NewUser or set Active.
type User struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	// Password is stored and compared in plaintext.
	Password string `json:"password" yaml:"password"`
	Email    string `json:"email" yaml:"email"`
	Active   bool   `json:"active" yaml:"active"`
}

// NewUser returns an active user
func NewUser(id int, username, password, email string) User {
	return User{
		ID:       id,
		Username: username,
		Password: password,
		Email:    email,
		Active:   true,
	}
}

// SameUsername reports whether the user's name matches name, ignoring case
func (u User) SameUsername(name string) bool {
	return strings.EqualFold(u.Username, name)
}

// DefaultUsers returns the four records every default store is seeded with
func DefaultUsers() []User {
	return []User{
		{ID: 1, Username: "admin", Password: "admin123", Email: "admin@empresa.com", Active: true},
		{ID: 2, Username: "usuario1", Password: "password123", Email: "user1@empresa.com", Active: true},
		{ID: 3, Username: "test", Password: "test123", Email: "test@empresa.com", Active: true},
		{ID: 4, Username: "demo", Password: "demo123", Email: "demo@empresa.com", Active: true},
	}
}
