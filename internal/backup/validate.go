package backup

import (
	"os"
	"path/filepath"

	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
)

// Validator applies the safety rules to candidate source paths against a
// fixed destination root. The destination's canonical path is snapshotted
// at construction so every entry in a run is judged against the same root.
//
// Rules are evaluated in order and the first failing rule wins, which
// keeps the reported reason deterministic:
//
//  1. the path must be absolute                      (not-absolute)
//  2. the path must exist                            (not-found)
//  3. the path must not live under the destination   (inside-destination)
//  4. the path must not be the destination itself    (is-destination)
//  5. a directory must not contain the destination   (contains-destination)
type Validator struct {
	destRoot string // canonical
}

// NewValidator creates a Validator for the given destination root.
// The root must exist; its canonical path is resolved once here.
func NewValidator(destRoot string) (*Validator, error) {
	canonical, err := paths.Canonicalize(destRoot)
	if err != nil {
		return nil, errors.Wrap(err, "canonicalizing destination root")
	}
	return &Validator{destRoot: canonical}, nil
}

// DestRoot returns the canonical destination root the validator checks against.
func (v *Validator) DestRoot() string {
	return v.destRoot
}

// Validate applies the safety rules to one candidate path and returns the
// resulting entry. Rejected entries carry the reason of the first rule
// that failed; accepted entries carry the canonical path and kind.
func (v *Validator) Validate(raw string) SourceEntry {
	entry := SourceEntry{Raw: raw}

	if !filepath.IsAbs(raw) {
		entry.Reason = ReasonNotAbsolute
		return entry
	}

	info, err := os.Stat(raw)
	if err != nil {
		entry.Kind = KindMissing
		entry.Reason = ReasonNotFound
		return entry
	}

	canonical, err := paths.Canonicalize(raw)
	if err != nil {
		// Exists but cannot be resolved (e.g. dangling symlink component).
		entry.Kind = KindMissing
		entry.Reason = ReasonNotFound
		return entry
	}
	entry.Canonical = canonical

	if info.IsDir() {
		entry.Kind = KindDir
	} else {
		entry.Kind = KindFile
	}

	if paths.IsWithin(v.destRoot, canonical) {
		entry.Reason = ReasonInsideDestination
		return entry
	}

	if canonical == v.destRoot {
		entry.Reason = ReasonIsDestination
		return entry
	}

	if entry.Kind == KindDir && paths.IsWithin(canonical, v.destRoot) {
		entry.Reason = ReasonContainsDestination
		return entry
	}

	return entry
}
