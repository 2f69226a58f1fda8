package login

import "github.com/pkg/errors"

// ErrMissingCredentials is shown when username or password were not submitted.
var ErrMissingCredentials = errors.New("username and password are required")
