// Package errors provides error handling conventions for the twrp2neo CLI.
//
// This package defines sentinel errors for the failure classes of a
// migration run, an ExitError type for CLI exit code handling, and exit
// code constants following standard Unix conventions. The wrapping helpers
// of github.com/cockroachdb/errors are re-exported so that callers need a
// single import.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, twrperrors.ErrDecode) {
//	    // the volume stream is corrupt or truncated
//	}
//
// Failures that originate below this package (for example a corrupt
// deflate stream) are tagged with [Mark] so the original cause survives
// in the message while still matching the sentinel.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (bad input path, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, corrupt volume, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. [Classify] maps any error to one:
//
//	exitErr := twrperrors.Classify(err)
//	if exitErr.Suggestion != "" {
//	    fmt.Println("Suggestion:", exitErr.Suggestion)
//	}
//	os.Exit(exitErr.Code)
package errors
