package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbu-cli/sbu/internal/logging"
	"github.com/sbu-cli/sbu/internal/paths"
)

func newTestExecutor(t *testing.T, dest string, mode Mode, pretend bool) *Executor {
	t.Helper()
	canonical, err := paths.Canonicalize(dest)
	require.NoError(t, err)
	policy, err := NewPolicy(mode, nil)
	require.NoError(t, err)
	return NewExecutor(canonical, policy, pretend, logging.NewDiscard())
}

func taskFor(t *testing.T, e *Executor, src string) CopyTask {
	t.Helper()
	canonical, err := paths.Canonicalize(src)
	require.NoError(t, err)
	kind := KindFile
	if info, err := os.Stat(canonical); err == nil && info.IsDir() {
		kind = KindDir
	}
	return CopyTask{
		Entry:  SourceEntry{Raw: src, Canonical: canonical, Kind: kind},
		Target: e.Target(canonical),
	}
}

func TestExecutor_CopiesFileWithFullPathStructure(t *testing.T) {
	src := writeTestFile(t, t.TempDir(), "notes.txt", "hello")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, false)
	task := taskFor(t, e, src)
	res := e.Execute(task)

	assert.Equal(t, StatusCopied, res.Status())
	assert.Equal(t, 1, res.Copied)

	// The target mirrors the entire absolute source path under dest.
	canonical, _ := paths.Canonicalize(src)
	want := filepath.Join(e.destRoot, paths.StripRoot(canonical))
	assert.Equal(t, want, task.Target)

	got, err := os.ReadFile(task.Target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestExecutor_PreservesFileMode(t *testing.T) {
	src := writeTestFile(t, t.TempDir(), "run.sh", "#!/bin/sh\n")
	require.NoError(t, os.Chmod(src, 0o755))
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, false)
	task := taskFor(t, e, src)
	res := e.Execute(task)
	require.Equal(t, StatusCopied, res.Status())

	info, err := os.Stat(task.Target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestExecutor_SecondRunSkipsIdenticalContent(t *testing.T) {
	src := writeTestFile(t, t.TempDir(), "stable.txt", "same bytes")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, false)
	task := taskFor(t, e, src)

	first := e.Execute(task)
	assert.Equal(t, StatusCopied, first.Status())

	second := e.Execute(task)
	assert.Equal(t, StatusSkipped, second.Status())
	assert.Equal(t, 1, second.Skipped)
	assert.Zero(t, second.Copied)
}

func TestExecutor_DefaultModeSkipsChangedTarget(t *testing.T) {
	src := writeTestFile(t, t.TempDir(), "doc.txt", "new content")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, false)
	task := taskFor(t, e, src)

	// Pre-existing target with different content stays untouched.
	require.NoError(t, os.MkdirAll(filepath.Dir(task.Target), 0o755))
	require.NoError(t, os.WriteFile(task.Target, []byte("old content"), 0o644))

	res := e.Execute(task)
	assert.Equal(t, StatusSkipped, res.Status())

	got, err := os.ReadFile(task.Target)
	require.NoError(t, err)
	assert.Equal(t, "old content", string(got))
}

func TestExecutor_ForceModeOverwritesChangedTarget(t *testing.T) {
	src := writeTestFile(t, t.TempDir(), "doc.txt", "new content")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeForce, false)
	task := taskFor(t, e, src)

	require.NoError(t, os.MkdirAll(filepath.Dir(task.Target), 0o755))
	require.NoError(t, os.WriteFile(task.Target, []byte("old content"), 0o644))

	res := e.Execute(task)
	assert.Equal(t, StatusCopied, res.Status())

	got, err := os.ReadFile(task.Target)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(got))
}

func TestExecutor_DirectoryMergesIntoExistingTree(t *testing.T) {
	srcRoot := t.TempDir()
	dir := filepath.Join(srcRoot, "cfg")
	writeTestFile(t, dir, "a.conf", "alpha")
	writeTestFile(t, dir, "sub/b.conf", "beta")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, false)
	task := taskFor(t, e, dir)

	res := e.Execute(task)
	assert.Equal(t, StatusCopied, res.Status())
	assert.Equal(t, 2, res.Copied)

	// A new file added to the source merges in on the next run without
	// rewriting the unchanged ones.
	writeTestFile(t, dir, "c.conf", "gamma")
	res = e.Execute(task)
	assert.Equal(t, StatusCopied, res.Status())
	assert.Equal(t, 1, res.Copied)
	assert.Equal(t, 2, res.Skipped)

	canonical, _ := paths.Canonicalize(dir)
	got, err := os.ReadFile(filepath.Join(e.destRoot, paths.StripRoot(canonical), "sub", "b.conf"))
	require.NoError(t, err)
	assert.Equal(t, "beta", string(got))
}

func TestExecutor_PretendWritesNothing(t *testing.T) {
	srcRoot := t.TempDir()
	dir := filepath.Join(srcRoot, "data")
	writeTestFile(t, dir, "x.txt", "x")
	writeTestFile(t, dir, "y.txt", "y")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, true)
	res := e.Execute(taskFor(t, e, dir))

	assert.Equal(t, StatusCopied, res.Status())
	assert.Equal(t, 2, res.Copied)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries, "pretend run must not touch the destination")
}

func TestExecutor_VanishedSourceIsFailure(t *testing.T) {
	src := writeTestFile(t, t.TempDir(), "gone.txt", "x")
	dest := t.TempDir()

	e := newTestExecutor(t, dest, ModeDefault, false)
	task := taskFor(t, e, src)
	require.NoError(t, os.Remove(src))

	res := e.Execute(task)
	assert.Equal(t, StatusFailed, res.Status())
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], ErrSourceVanished)
}

func TestExecutor_UnreadableFileFailsWithoutAbortingSiblings(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	srcRoot := t.TempDir()
	dir := filepath.Join(srcRoot, "mixed")
	locked := writeTestFile(t, dir, "locked.txt", "secret")
	writeTestFile(t, dir, "open.txt", "public")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o644) })

	e := newTestExecutor(t, t.TempDir(), ModeDefault, false)
	res := e.Execute(taskFor(t, e, dir))

	assert.Equal(t, StatusFailed, res.Status())
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Copied, "readable sibling still copied")
}
