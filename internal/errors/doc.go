// Package errors provides error handling conventions for the sbu CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It re-exports the construction
// and inspection helpers from github.com/cockroachdb/errors so the rest
// of the codebase imports a single errors package.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, sbuerrors.ErrConflictingModes) {
//	    // handle configuration conflict
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Run completed with no failed entries
//   - ExitUser (1): User-related error (invalid flags, bad list file, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, failed copies)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. The command layer unwraps it via [As] to determine the
// process exit status:
//
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
