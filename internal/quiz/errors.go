package quiz

import "errors"

var (
	// ErrEmptySession is returned when a session is started without questions.
	ErrEmptySession = errors.New("quiz: session requires at least one question")

	// ErrInvalidSessionID is returned when a session ID cannot be decoded into a key.
	ErrInvalidSessionID = errors.New("quiz: invalid session id")
)
