// Package backup implements the path-validation and copy-resolution
// engine behind the sbu CLI.
//
// The engine decides, for every path nominated in a backup list, whether
// it is safe to include, how it maps onto the destination, and whether
// an existing destination entry is overwritten, skipped, or resolved
// interactively.
//
// # Pipeline
//
// One run flows through four stages:
//
//	Validator    safety rules per candidate path
//	Resolver     partition into accepted/rejected, dedupe, minimize
//	Policy       overwrite decision per conflicting target
//	Executor     recursive merge copy (or archive streaming)
//
// driven by an [Orchestrator] that aggregates a [RunSummary] and emits
// one structured [Event] per entry through an [EventSink].
//
// # Safety Rules
//
// The validator applies five ordered rules; the first failure wins so
// the reported reason is deterministic:
//
//	not-absolute          the path is not absolute
//	not-found             the path does not exist
//	inside-destination    the path lives under the destination root
//	is-destination        the path is the destination root itself
//	contains-destination  the directory contains the destination root
//
// All comparisons use canonical (symlink-resolved, cleaned) paths, and
// the destination's canonical path is snapshotted once per run, so
// earlier decisions cannot be invalidated mid-run. An entry that fails
// validation is never promoted to a copy task.
//
// # Overwrite Policy
//
// Three mutually exclusive modes: default (skip existing targets), force
// (overwrite), interactive (ask per target through an injected
// [Confirmer]). Files whose content already matches the source are
// skipped without consulting the policy.
//
// # Failure Semantics
//
// Rejections and per-entry copy failures never abort a run; siblings of
// a failing descendant still complete. Two conditions are fatal: a
// configuration error before any copy starts, and a mid-stream fault of
// the shared archive writer ([ErrArchiveFault]). A source that existed
// at validation time but vanished before its copy is reported as a
// failure wrapping [ErrSourceVanished], not as a rejection.
package backup
