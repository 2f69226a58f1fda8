package auth

import "github.com/pkg/errors"

var (
	// ErrInvalidCredentials is returned when username or password do not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserDisabled is returned when the account exists but is inactive.
	ErrUserDisabled = errors.New("user account is disabled")
	// ErrUserExists is returned when the username is already taken.
	ErrUserExists = errors.New("username already exists")
	// ErrUnknownRole is returned when a role name is not one of the system roles.
	ErrUnknownRole = errors.New("unknown role")
)
