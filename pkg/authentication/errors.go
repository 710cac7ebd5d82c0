package authentication

import "errors"

// User-facing failure messages
const (
	MsgBlankInput         = "Usuario y contraseña no pueden estar vacíos"
	MsgInvalidCredentials = "Credenciales incorrectas"
	msgUpstreamPrefix     = "Error de conexión: "
)

var (
	// ErrBlankInput is the cause of a Failure for an empty username or password
	ErrBlankInput = errors.New("blank username or password")

	// ErrCredentialMismatch is the cause of a Failure when no active user matches
	ErrCredentialMismatch = errors.New("invalid credentials")

	// ErrUpstream is the cause of a Failure when the secondary authenticator fails
	ErrUpstream = errors.New("secondary authenticator unavailable")
)
