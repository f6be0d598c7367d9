// Package report writes a machine-readable run report into the backup
// destination, so a later look at the backup medium shows what the run
// did without the original terminal output.
package report

import (
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sbu-cli/sbu/internal/backup"
	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/pkg/fileutil"
)

// FileName is the report file written into the destination root.
const FileName = "sbu-report.toml"

// Report is the TOML document describing one completed run.
type Report struct {
	FinishedAt time.Time `toml:"finished_at"`
	Pretend    bool      `toml:"pretend,omitempty"`
	Archive    string    `toml:"archive,omitempty"`

	Counts struct {
		Accepted int `toml:"accepted"`
		Rejected int `toml:"rejected"`
		Copied   int `toml:"copied"`
		Skipped  int `toml:"skipped"`
		Failed   int `toml:"failed"`
	} `toml:"counts"`

	Rejections []Entry `toml:"rejections,omitempty"`
	Failures   []Entry `toml:"failures,omitempty"`
}

// Entry is one rejected or failed path with its reason.
type Entry struct {
	Path   string `toml:"path"`
	Reason string `toml:"reason"`
}

// FromSummary builds a Report from a run summary.
func FromSummary(s *backup.RunSummary, finishedAt time.Time) *Report {
	r := &Report{
		FinishedAt: finishedAt,
		Pretend:    s.Pretend,
		Archive:    s.ArchivePath,
	}
	r.Counts.Accepted = s.Accepted
	r.Counts.Rejected = s.Rejected
	r.Counts.Copied = s.Copied
	r.Counts.Skipped = s.Skipped
	r.Counts.Failed = s.Failed

	for _, rej := range s.Rejections {
		r.Rejections = append(r.Rejections, Entry{Path: rej.Path, Reason: string(rej.Reason)})
	}
	for _, f := range s.Failures {
		r.Failures = append(r.Failures, Entry{Path: f.Path, Reason: f.Error})
	}
	return r
}

// Write marshals the report as TOML and writes it atomically to path.
func Write(path string, r *Report) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}
	return errors.Wrap(fileutil.AtomicWriteFile(path, data, 0o644), "writing report")
}
