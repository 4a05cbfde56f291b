package terminal

import "errors"

var (
	// ErrSessionDestroyed is returned by operations that cannot run on a destroyed session.
	ErrSessionDestroyed = errors.New("terminal session destroyed")
	// ErrSessionNotFound is returned by the manager for unknown tabs.
	ErrSessionNotFound = errors.New("terminal session not found")
	// ErrSessionExists is returned when opening a tab that already has a session.
	ErrSessionExists = errors.New("terminal session already exists")
	// ErrNoRenderer is returned by Init when no renderer factory was configured.
	ErrNoRenderer = errors.New("no renderer factory")
)
