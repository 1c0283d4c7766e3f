package service

import "errors"

// Service errors.
var (
	// ErrNotStarted indicates an operation arrived before Start.
	ErrNotStarted = errors.New("service: not started")
	// ErrInvalidCompletion indicates a malformed puzzle completion.
	ErrInvalidCompletion = errors.New("service: invalid puzzle completion")
	// ErrModeLocked indicates the puzzle's game mode is not unlocked yet.
	ErrModeLocked = errors.New("service: game mode not unlocked")
)
