package session

import "github.com/pkg/errors"

// ErrNoSession is returned when no session exists for a session identifier.
var ErrNoSession = errors.New("no session found")
