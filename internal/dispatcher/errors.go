package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrInvalidKeyName indicates a configured key name cannot be translated
	// into a key sequence.
	ErrInvalidKeyName = errors.New("dispatcher: invalid key name")

	// ErrClosed indicates the dispatcher has been closed.
	ErrClosed = errors.New("dispatcher: closed")

	// ErrNoHost indicates New was called without a host.
	ErrNoHost = errors.New("dispatcher: host is required")

	// ErrPanic indicates a handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")
)
