package backup

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

// RejectReason identifies which safety rule excluded a source entry.
// The values are stable identifiers used in events and reports.
type RejectReason string

// Rejection reasons, in rule evaluation order.
const (
	// ReasonNotAbsolute marks a candidate path that is not absolute.
	ReasonNotAbsolute RejectReason = "not-absolute"

	// ReasonNotFound marks a candidate path that does not exist.
	ReasonNotFound RejectReason = "not-found"

	// ReasonInsideDestination marks a path that lives under the destination root.
	ReasonInsideDestination RejectReason = "inside-destination"

	// ReasonIsDestination marks a path that is the destination root itself.
	ReasonIsDestination RejectReason = "is-destination"

	// ReasonContainsDestination marks a directory that contains the
	// destination root, which would copy the backup into itself.
	ReasonContainsDestination RejectReason = "contains-destination"
)

// EntryKind classifies what a source entry resolves to on disk.
type EntryKind int

const (
	// KindInvalid is the zero value for entries that never resolved.
	KindInvalid EntryKind = iota
	// KindFile is a regular file.
	KindFile
	// KindDir is a directory.
	KindDir
	// KindMissing is a path that did not exist at validation time.
	KindMissing
)

// String returns a short label for logging.
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindMissing:
		return "missing"
	default:
		return "invalid"
	}
}

// SourceEntry is one candidate path from the backup list after validation.
// Entries are immutable once produced by the resolver.
type SourceEntry struct {
	// Raw is the path string as it appeared in the list file.
	Raw string

	// Canonical is the symlink-resolved absolute path.
	// Empty for entries rejected before canonicalization.
	Canonical string

	// Kind classifies the entry on disk.
	Kind EntryKind

	// Reason is non-empty for rejected entries.
	Reason RejectReason
}

// Accepted reports whether the entry passed all safety rules.
func (e SourceEntry) Accepted() bool {
	return e.Reason == ""
}

// CopyTask is one resolved unit of work: an accepted source entry paired
// with its target location under the destination root. Consumed exactly
// once by the executor.
type CopyTask struct {
	Entry  SourceEntry
	Target string
}

// Decision is the outcome of the overwrite policy for one copy task
// whose target already exists.
type Decision int

const (
	// DecisionProceed means the copy goes ahead.
	DecisionProceed Decision = iota
	// DecisionSkip means the existing target is left untouched.
	DecisionSkip
	// DecisionAskProceed means the user confirmed the overwrite.
	DecisionAskProceed
	// DecisionAskSkip means the user declined the overwrite.
	DecisionAskSkip
)

// Proceed reports whether the decision allows the copy to happen.
func (d Decision) Proceed() bool {
	return d == DecisionProceed || d == DecisionAskProceed
}

// Status is the per-entry outcome of copy execution.
type Status int

const (
	// StatusCopied means at least one file was written and nothing failed.
	StatusCopied Status = iota
	// StatusSkipped means nothing needed writing (policy skip or identical content).
	StatusSkipped
	// StatusFailed means at least one file could not be copied.
	StatusFailed
)

// String returns a short label for logging.
func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Sentinel errors for copy execution.
var (
	// ErrSourceVanished indicates an entry existed at validation time but
	// was gone when the copy ran. Reported as a failure, not a rejection,
	// so operators can tell "excluded by policy" from "disappeared mid-run".
	ErrSourceVanished = errors.New("source vanished before copy")

	// ErrArchiveFault indicates the shared archive stream faulted mid-write.
	// Fatal for the remainder of an archive-mode run.
	ErrArchiveFault = errors.New("archive stream fault")
)

// EventType identifies a structured per-entry event.
type EventType string

// Event types emitted over one run.
const (
	EventAccepted EventType = "accepted"
	EventRejected EventType = "rejected"
	EventCopied   EventType = "copied"
	EventSkipped  EventType = "skipped"
	EventFailed   EventType = "failed"
)

// Event is one structured per-entry notification. The core emits events
// instead of formatted text; the CLI layer decides presentation.
type Event struct {
	Type   EventType
	Path   string
	Target string
	Reason RejectReason
	Err    error
}

// EventSink receives per-entry events during a run.
type EventSink interface {
	Emit(Event)
}

// LogSink adapts an slog.Logger to EventSink. Rejections log at Warn,
// failures at Error, everything else at Info.
type LogSink struct {
	Logger *slog.Logger
}

// Emit implements EventSink.
func (s LogSink) Emit(ev Event) {
	switch ev.Type {
	case EventRejected:
		s.Logger.Warn("entry rejected", "path", ev.Path, "reason", string(ev.Reason))
	case EventFailed:
		s.Logger.Error("entry failed", "path", ev.Path, "error", ev.Err)
	case EventCopied:
		s.Logger.Info("entry copied", "path", ev.Path, "target", ev.Target)
	case EventSkipped:
		s.Logger.Info("entry skipped", "path", ev.Path, "target", ev.Target)
	default:
		s.Logger.Debug("entry accepted", "path", ev.Path)
	}
}

// Rejection records one excluded entry for the run summary.
type Rejection struct {
	Path   string       `json:"path"`
	Reason RejectReason `json:"reason"`
}

// Failure records one failed copy for the run summary.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// RunSummary aggregates the outcome of one orchestrator run.
type RunSummary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Copied   int `json:"copied"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`

	Rejections []Rejection `json:"rejections,omitempty"`
	Failures   []Failure   `json:"failures,omitempty"`

	// Pretend is true when the run was a dry run and wrote nothing.
	Pretend bool `json:"pretend,omitempty"`

	// ArchivePath is the archive file written in archive mode.
	ArchivePath string `json:"archive_path,omitempty"`
}

// Clean reports whether the run completed without failed entries.
func (s *RunSummary) Clean() bool {
	return s.Failed == 0
}
