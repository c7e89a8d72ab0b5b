// Package logging provides structured logging for the twrp2neo CLI using slog.
//
// The package supports both text and JSON output formats, a verbosity
// ladder (warn, info, debug, trace) and helpers for testing. All loggers
// are based on the standard library's [log/slog] package; the text
// handler colours its output with fatih/color when stderr is a terminal.
//
// # CLI Usage
//
//	logger, closeLog, err := logging.Setup(logging.Options{
//		Verbosity: 2,
//		Format:    logging.FormatText,
//		File:      "migrate.log", // optional JSON copy
//	})
//	defer closeLog()
//	slog.SetDefault(logger)
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// Use [NewDiscard] when log output should be suppressed entirely.
package logging
