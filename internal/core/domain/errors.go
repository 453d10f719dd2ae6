package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates an asset format that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrQueueBusy indicates a queue drain is already running.
	ErrQueueBusy = errors.New("queue is already processing")

	// ErrItemBusy indicates the item is being converted and cannot be changed.
	ErrItemBusy = errors.New("item is converting")

	// ErrInvalidTransition indicates a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Conversion error kinds. Typed errors below match these via errors.Is.

	// ErrConfig indicates a required endpoint or key was missing at call time.
	ErrConfig = errors.New("configuration error")

	// ErrRemote indicates the conversion service answered with a failure.
	ErrRemote = errors.New("remote error")

	// ErrNetwork indicates no response was received from the service.
	ErrNetwork = errors.New("network error")

	// ErrDegenerateInput indicates a scene with no measurable extent.
	ErrDegenerateInput = errors.New("degenerate input")
)

// ConfigError reports a missing endpoint or API key.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// RemoteError reports a non-success HTTP status or an incomplete success payload.
type RemoteError struct {
	// StatusCode is the HTTP status, zero when the payload itself was bad.
	StatusCode int

	// Message is the human-readable failure detail.
	Message string

	// RetryAfter is the server-suggested delay, if any. Never acted on automatically.
	RetryAfter time.Duration
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Is reports whether target is ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// NetworkError reports a transport-level failure where no response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// DegenerateInputError reports a scene whose bounding box cannot be rescaled.
type DegenerateInputError struct {
	// Extent is the largest bounding-box dimension that was measured.
	Extent float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate scene: max extent %g", e.Extent)
}

// Is reports whether target is ErrDegenerateInput.
func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}
