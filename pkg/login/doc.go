// Package login holds the business rules applied to a credential pair before
// it reaches the authentication repository.
//
// Policy checks input shape (minimum username and password length) and the
// account-lock extension point, then delegates to an authentication.Authenticator
// and returns its outcome unchanged. Attempt counting and lockout after repeated
// failures belong to the caller.
package login
