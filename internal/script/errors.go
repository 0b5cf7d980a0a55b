package script

import "errors"

// Errors for script execution.
var (
	// ErrRunnerClosed is returned when running on a closed Runner.
	ErrRunnerClosed = errors.New("script runner is closed")

	// ErrExecutionTimeout is returned when a script exceeds its timeout.
	ErrExecutionTimeout = errors.New("script execution timeout")
)

// Error describes a failed script chunk.
type Error struct {
	Chunk string
	Err   error
}

func (e *Error) Error() string {
	return "script " + e.Chunk + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
