package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (bad volume path, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, corrupt volume, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidInput indicates the given input path is not something the
	// tool can work with, such as a file that is not a first volume.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates the requested file or directory was not found.
	ErrNotFound = errors.New("not found")

	// ErrDecode indicates a volume could not be decoded. The stream is
	// either truncated or corrupt.
	ErrDecode = errors.New("decode failed")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewExitErrorWithSuggestion creates an ExitError with a suggestion.
func NewExitErrorWithSuggestion(err error, code int, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       code,
		Suggestion: suggestion,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Check config.yaml and TWRP2NEO_* environment variables",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Classify converts an arbitrary error into an ExitError.
//
// An ExitError already present in the chain is returned as is. Otherwise
// input, lookup and configuration failures become user errors and
// everything else is a system error. Hints attached with WithHint become
// the suggestion.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	suggestion := ""
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		suggestion = hints[0]
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		e := NewConfigError(err)
		if suggestion != "" {
			e.Suggestion = suggestion
		}
		return e
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
		return NewUserError(err, suggestion)
	default:
		return NewSystemError(err, suggestion)
	}
}
