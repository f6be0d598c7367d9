// Package logging provides structured logging for the sbu CLI using slog.
//
// The package wraps log/slog with a TTY-optimized color text handler,
// a JSON handler option, and a MultiHandler that fans records out to
// several destinations (e.g. stderr plus a log file).
//
// Per-entry events from the backup engine (accepted, rejected, copied,
// skipped, failed) are emitted as structured records through this package;
// the active verbosity decides which of them the user sees.
//
// # Verbosity Mapping
//
// The -v flag count maps onto slog levels via [LevelFromVerbosity]:
//
//	(none)  Warn   rejections and failures only
//	-v      Info   plus per-entry progress
//	-vv     Debug  plus path resolution tracing
//
// Quiet mode (-q) uses Error so warnings are suppressed; failures are
// never suppressed.
//
// # Testing
//
// Use [ForTest] to route log output through testing.T so messages appear
// only for failing tests or with go test -v.
package logging
