package service

import "errors"

var (
	// ErrNotStarted is returned when an operation runs before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session registry is full.
	ErrTooManySessions = errors.New("session limit reached")
)
