package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sbu-cli/sbu/internal/backup/archive"
	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
)

// Options configures one orchestrator run. Values are treated as
// immutable once handed to New, so concurrent runs with separate
// Options never interfere.
type Options struct {
	// RawPaths are the candidate source paths, in list-file order.
	RawPaths []string

	// DestRoot is the backup destination. In plain mode it is the mirror
	// root and is created if absent. In archive mode it is either the
	// directory receiving the archive file or the archive file path itself.
	DestRoot string

	// Mode selects the overwrite policy.
	Mode Mode

	// Confirm answers interactive overwrite questions. Required for
	// ModeInteractive only.
	Confirm Confirmer

	// Archive selects archive mode; Format then names the container format.
	Archive bool
	Format  archive.Format

	// Pretend walks the full pipeline but writes nothing.
	Pretend bool

	// Workers bounds concurrent validation. <= 0 selects DefaultWorkers.
	Workers int

	// Sink receives per-entry events. Defaults to logging via Logger.
	Sink EventSink

	// Logger receives debug tracing. Defaults to slog.Default().
	Logger *slog.Logger
}

// Orchestrator sequences one backup run: resolve the candidate list,
// then execute every accepted entry, aggregating results. Validation
// rejections never abort the run; they are recorded and skipped.
type Orchestrator struct {
	opts     Options
	resolver *Resolver
	executor *Executor
	policy   *Policy
	sink     EventSink
	log      *slog.Logger

	// containRoot is the canonical directory used for containment checks:
	// the destination itself, or its parent when the destination names an
	// archive file. Snapshotted once so every entry sees the same root.
	containRoot string
}

// New creates an Orchestrator, creating the destination root (plain
// mode, unless pretending) and snapshotting its canonical path for
// containment checks.
func New(opts Options) (*Orchestrator, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sink == nil {
		opts.Sink = LogSink{Logger: opts.Logger}
	}

	policy, err := NewPolicy(opts.Mode, opts.Confirm)
	if err != nil {
		return nil, err
	}

	rootDir := opts.DestRoot
	if opts.Archive {
		// The destination may name the archive file itself; containment is
		// then judged against the directory that will hold it.
		info, err := os.Stat(opts.DestRoot)
		if err != nil || !info.IsDir() {
			rootDir = filepath.Dir(opts.DestRoot)
		}
		if _, err := os.Stat(rootDir); err != nil {
			return nil, errors.Wrapf(err, "destination directory %s", rootDir)
		}
	} else if !opts.Pretend {
		if err := paths.EnsureDir(rootDir, 0); err != nil {
			return nil, errors.Wrapf(err, "creating destination %s", rootDir)
		}
	}

	// A plain-mode dry run leaves a missing destination uncreated; the
	// containment root is then resolved through the deepest existing
	// ancestor so the safety rules match what a real run would see.
	var validator *Validator
	if !opts.Archive && opts.Pretend {
		canonical, err := paths.CanonicalizeFuture(rootDir)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving destination %s", rootDir)
		}
		validator = &Validator{destRoot: canonical}
	} else {
		v, err := NewValidator(rootDir)
		if err != nil {
			return nil, err
		}
		validator = v
	}

	return &Orchestrator{
		opts:        opts,
		resolver:    NewResolver(validator, opts.Workers),
		executor:    NewExecutor(validator.DestRoot(), policy, opts.Pretend, opts.Logger),
		policy:      policy,
		sink:        opts.Sink,
		log:         opts.Logger,
		containRoot: validator.DestRoot(),
	}, nil
}

// Run executes the backup and returns the aggregate summary.
// The returned error is non-nil only for fatal conditions (context
// cancellation during validation, archive stream fault); per-entry copy
// failures are reported in the summary instead.
func (o *Orchestrator) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{Pretend: o.opts.Pretend}

	accepted, rejected, err := o.resolver.Resolve(ctx, o.opts.RawPaths)
	if err != nil {
		return nil, errors.Wrap(err, "resolving entries")
	}

	for _, e := range rejected {
		summary.Rejected++
		summary.Rejections = append(summary.Rejections, Rejection{Path: e.Raw, Reason: e.Reason})
		o.sink.Emit(Event{Type: EventRejected, Path: e.Raw, Reason: e.Reason})
	}

	summary.Accepted = len(accepted)
	for _, e := range accepted {
		o.sink.Emit(Event{Type: EventAccepted, Path: e.Canonical})
	}

	if o.opts.Archive {
		return summary, o.runArchive(accepted, summary)
	}
	o.runPlain(accepted, summary)
	return summary, nil
}

// runPlain mirrors every accepted entry under the destination root.
func (o *Orchestrator) runPlain(accepted []SourceEntry, summary *RunSummary) {
	for _, e := range accepted {
		task := CopyTask{Entry: e, Target: o.executor.Target(e.Canonical)}
		res := o.executor.Execute(task)

		for _, err := range res.Errors {
			summary.Failures = append(summary.Failures, Failure{Path: e.Canonical, Error: err.Error()})
		}

		switch res.Status() {
		case StatusCopied:
			summary.Copied++
			o.sink.Emit(Event{Type: EventCopied, Path: e.Canonical, Target: task.Target})
		case StatusSkipped:
			summary.Skipped++
			o.sink.Emit(Event{Type: EventSkipped, Path: e.Canonical, Target: task.Target})
		case StatusFailed:
			summary.Failed++
			o.sink.Emit(Event{Type: EventFailed, Path: e.Canonical, Err: res.Errors[0]})
		}
	}
}

// runArchive streams every accepted entry into one archive file. The
// overwrite policy applies to the archive file as a whole, since entries
// inside a container cannot be selectively overwritten in place.
//
// The archive is assembled in a temp file and renamed into place on
// success, so a faulted stream never leaves a corrupt half-archive at
// the final name.
func (o *Orchestrator) runArchive(accepted []SourceEntry, summary *RunSummary) error {
	target, err := archive.ResolveTarget(o.opts.DestRoot, o.opts.Format)
	if err != nil {
		return errors.Wrap(err, "resolving archive target")
	}
	summary.ArchivePath = target

	exists := false
	if _, err := os.Stat(target); err == nil {
		exists = true
	}

	decision, err := o.policy.Decide(target, exists)
	if err != nil {
		return err
	}
	if !decision.Proceed() {
		o.log.Info("archive exists, nothing written", "target", target)
		for _, e := range accepted {
			summary.Skipped++
			o.sink.Emit(Event{Type: EventSkipped, Path: e.Canonical, Target: target})
		}
		return nil
	}

	if o.opts.Pretend {
		for _, e := range accepted {
			summary.Copied++
			o.sink.Emit(Event{Type: EventCopied, Path: e.Canonical, Target: target})
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".sbu-archive-*")
	if err != nil {
		return errors.Wrap(err, "creating archive temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	w, err := archive.NewWriter(tmp, o.opts.Format)
	if err != nil {
		tmp.Close()
		return err
	}

	for _, e := range accepted {
		// A vanished source is a per-entry failure; nothing has been
		// written for it yet, so the stream is still intact.
		if _, err := os.Stat(e.Canonical); err != nil {
			failErr := errors.Wrapf(ErrSourceVanished, "%s", e.Canonical)
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Path: e.Canonical, Error: failErr.Error()})
			o.sink.Emit(Event{Type: EventFailed, Path: e.Canonical, Err: failErr})
			continue
		}

		if _, err := w.AddPath(e.Canonical); err != nil {
			// A mid-stream write fault may leave the container unusable;
			// abort the remainder of the run.
			faultErr := errors.Wrapf(ErrArchiveFault, "adding %s: %v", e.Canonical, err)
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Path: e.Canonical, Error: faultErr.Error()})
			o.sink.Emit(Event{Type: EventFailed, Path: e.Canonical, Err: faultErr})
			tmp.Close()
			return faultErr
		}

		summary.Copied++
		o.sink.Emit(Event{Type: EventCopied, Path: e.Canonical, Target: target})
	}

	if err := w.Close(); err != nil {
		tmp.Close()
		return errors.Wrap(ErrArchiveFault, err.Error())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing archive temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrap(err, "setting archive permissions")
	}
	if err := os.Rename(tmpName, target); err != nil {
		return errors.Wrap(err, "moving archive into place")
	}

	o.log.Info("archive written", "target", target, "entries", summary.Copied)
	return nil
}
