package store

import "errors"

var (
	// ErrLocked is returned by Open when another run holds the store lock.
	ErrLocked = errors.New("store is locked by another run")
	// ErrUnknownEntry is returned when a URL is not in the store.
	ErrUnknownEntry = errors.New("unknown entry")
	// ErrInvalidTransition is returned when a status change breaks the state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCorrupt marks a store file that exists but cannot be decoded.
	ErrCorrupt = errors.New("store file is corrupt")
	// ErrClosed is returned when a closed store is saved.
	ErrClosed = errors.New("store is closed")
)
