package tmux

import "errors"

var (
	// ErrTmuxNotRunning is returned when tmux server is not available.
	ErrTmuxNotRunning = errors.New("tmux server is not running")

	// ErrPaneNotFound is returned when a tmux pane cannot be found.
	ErrPaneNotFound = errors.New("tmux pane not found")

	// ErrInvalidTarget is returned when no pane target is known.
	ErrInvalidTarget = errors.New("invalid tmux target")

	// ErrTmuxCommandFailed is returned when a tmux command execution fails.
	ErrTmuxCommandFailed = errors.New("tmux command failed")
)
