package backup

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
	"github.com/sbu-cli/sbu/pkg/fileutil"
)

// Executor performs plain-mode copies: each accepted entry is mirrored
// under the destination root, preserving the full source path structure
// ("/etc/passwd" lands at "<dest>/etc/passwd").
//
// Directory entries merge into existing destination trees: files already
// present with identical content are skipped outright, conflicting files
// go through the overwrite policy, and a failing descendant never aborts
// its siblings.
type Executor struct {
	destRoot string // canonical
	policy   *Policy
	pretend  bool
	log      *slog.Logger
}

// NewExecutor creates an Executor writing under destRoot (canonical).
// With pretend set, the executor walks and decides but writes nothing.
func NewExecutor(destRoot string, policy *Policy, pretend bool, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		destRoot: destRoot,
		policy:   policy,
		pretend:  pretend,
		log:      log,
	}
}

// Result aggregates what happened to one copy task, with per-descendant
// granularity for directory entries.
type Result struct {
	Copied  int
	Skipped int
	Failed  int
	Errors  []error
}

// Status collapses the result into the entry-level outcome.
func (r Result) Status() Status {
	switch {
	case r.Failed > 0:
		return StatusFailed
	case r.Copied > 0:
		return StatusCopied
	default:
		return StatusSkipped
	}
}

func (r *Result) fail(err error) {
	r.Failed++
	r.Errors = append(r.Errors, err)
}

// Target returns the destination path for a canonical source path.
func (e *Executor) Target(canonical string) string {
	return filepath.Join(e.destRoot, paths.StripRoot(canonical))
}

// Execute copies one task into the destination root. An entry that
// vanished since validation is reported as a failure wrapping
// ErrSourceVanished, distinct from a validation rejection.
func (e *Executor) Execute(task CopyTask) Result {
	var res Result

	src := task.Entry.Canonical
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			res.fail(errors.Wrapf(ErrSourceVanished, "%s", src))
		} else {
			res.fail(errors.Wrapf(err, "stat %s", src))
		}
		return res
	}

	if info.IsDir() {
		e.copyTree(src, &res)
	} else {
		e.copyOne(src, task.Target, &res)
	}
	return res
}

// copyTree walks the source directory and copies every file, creating
// directories as it descends. Walk errors and per-file failures are
// recorded and the walk continues with the remaining entries.
func (e *Executor) copyTree(srcDir string, res *Result) {
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == srcDir {
				res.fail(errors.Wrapf(ErrSourceVanished, "%s", path))
			} else {
				res.fail(errors.Wrapf(err, "walking %s", path))
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := e.Target(path)
		if d.IsDir() {
			if e.pretend {
				return nil
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				res.fail(errors.Wrapf(err, "creating %s", target))
				return fs.SkipDir
			}
			return nil
		}

		e.copyOne(path, target, res)
		return nil
	})
	if err != nil {
		// WalkDir itself only errors if the callback does; recorded above.
		res.fail(errors.Wrapf(err, "walking %s", srcDir))
	}
}

// copyOne copies a single file, applying the identical-content skip and
// the overwrite policy.
func (e *Executor) copyOne(src, target string, res *Result) {
	exists := true
	if _, err := os.Stat(target); err != nil {
		if !os.IsNotExist(err) {
			res.fail(errors.Wrapf(err, "stat %s", target))
			return
		}
		exists = false
	}

	if exists {
		same, err := fileutil.SameContent(src, target)
		if err != nil {
			res.fail(err)
			return
		}
		if same {
			e.log.Debug("source and target identical", "src", src)
			res.Skipped++
			return
		}
	}

	decision, err := e.policy.Decide(target, exists)
	if err != nil {
		res.fail(err)
		return
	}
	if !decision.Proceed() {
		e.log.Debug("overwrite declined", "target", target)
		res.Skipped++
		return
	}

	e.log.Debug("copying file", "src", src, "target", target)
	if e.pretend {
		res.Copied++
		return
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		res.fail(errors.Wrapf(err, "creating parent of %s", target))
		return
	}
	if err := copyFile(src, target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.fail(errors.Wrapf(ErrSourceVanished, "%s", src))
		} else {
			res.fail(err)
		}
		return
	}
	res.Copied++
}

// copyFile copies src to dst, preserving the source file's permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat %s", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrapf(err, "copying %s", src)
	}
	if err := dstFile.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dst)
	}

	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return errors.Wrapf(err, "setting permissions on %s", dst)
	}
	return nil
}
