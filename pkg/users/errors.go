package users

import "errors"

var (
	// ErrUserNotFound is returned when no record has the requested id
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateID is returned when inserting a record whose id is taken
	ErrDuplicateID = errors.New("duplicate user id")

	// ErrDuplicateUsername is returned when inserting a record whose username is taken
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrInvalidSeed is returned when a seed file cannot be decoded
	ErrInvalidSeed = errors.New("invalid seed file")
)
