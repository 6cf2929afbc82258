package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
	ErrNotPlaying      = errors.New("session is not playing")
	ErrNoActivePuzzle  = errors.New("no active puzzle")
	ErrAlreadyStarted  = errors.New("session already started")
)
