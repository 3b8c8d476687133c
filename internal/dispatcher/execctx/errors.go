package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingHost indicates the host is required but not set.
	ErrMissingHost = errors.New("execution context: host is required")

	// ErrMissingClient indicates client state is required but not set.
	ErrMissingClient = errors.New("execution context: client state is required")

	// ErrMissingPane indicates there is no active pane.
	ErrMissingPane = errors.New("execution context: no active pane")

	// ErrMissingExecutor indicates a command executor is required but not set.
	ErrMissingExecutor = errors.New("execution context: command executor is required")

	// ErrMissingClipboard indicates a clipboard is required but not set.
	ErrMissingClipboard = errors.New("execution context: clipboard is required")
)
