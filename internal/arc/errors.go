package arc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the arc package.
var (
	// ErrInvalidName indicates an empty export name or one containing a path separator.
	ErrInvalidName = errors.New("arc: invalid export name")

	// ErrUnknownCommand indicates a command outside the dispatch table.
	ErrUnknownCommand = errors.New("arc: unknown command")

	// ErrNoPreviousRun indicates Repeat was requested before any run started.
	ErrNoPreviousRun = errors.New("arc: no previous run to repeat")

	// ErrBusy indicates the operation needs the controller to be idle.
	ErrBusy = errors.New("arc: run in progress")

	// ErrNoExporter indicates Save was called without an exporter configured.
	ErrNoExporter = errors.New("arc: no exporter configured")
)

// IOError reports a failed trajectory export.
type IOError struct {
	// Name is the export name that was requested.
	Name string

	// Path is the destination, when known.
	Path string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("arc: export %q to %s: %v", e.Name, e.Path, e.Cause)
	}
	return fmt.Sprintf("arc: export %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// IsIOError reports whether err is or wraps an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
