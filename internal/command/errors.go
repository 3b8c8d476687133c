package command

import "errors"

var (
	// ErrUnknownCommand is returned when no executor knows a command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand is returned when registering a name twice.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrInvalidName is returned for an empty command name.
	ErrInvalidName = errors.New("invalid command name")

	// ErrClosed is returned when using a closed Lua executor.
	ErrClosed = errors.New("lua executor is closed")
)
