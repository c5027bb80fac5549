package pose

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pose package.
var (
	// ErrEmptyFrame indicates a null or empty keypoint array.
	ErrEmptyFrame = errors.New("pose: empty keypoint frame")

	// ErrShortFrame indicates the array ends before a required landmark.
	ErrShortFrame = errors.New("pose: keypoint frame too short")

	// ErrMissingCoordinate indicates a required landmark lacks x, y or z.
	ErrMissingCoordinate = errors.New("pose: keypoint missing coordinate")

	// ErrNotConnected indicates the client has no open connection.
	ErrNotConnected = errors.New("pose: not connected")
)

// DecodeError reports an inbound message that could not be turned into an arm pose.
type DecodeError struct {
	// Reason describes what was wrong.
	Reason string

	// Index is the offending keypoint index, or -1.
	Index int

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("pose: decode: %s (index %d)", e.Reason, e.Index)
	}
	if e.Cause != nil {
		return fmt.Sprintf("pose: decode: %s: %v", e.Reason, e.Cause)
	}
	return "pose: decode: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ConnectionError reports a websocket transport failure. It is never retried.
type ConnectionError struct {
	// Op is the failing operation: dial, read or write.
	Op string

	// URL is the feed endpoint.
	URL string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("pose: connection %s %s: %v", e.Op, e.URL, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsConnectionError reports whether err is or wraps a *ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
