package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is used for XDG directory naming.
const AppName = "sbu"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0755) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Canonicalize resolves path to its canonical absolute form: symlinks are
// resolved and "." / ".." segments eliminated. The path must exist.
//
// All containment comparisons in the backup engine operate on canonical
// paths so that symlinks or ".." segments cannot bypass the safety rules.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, "resolving symlinks in %s", path)
	}
	return resolved, nil
}

// CanonicalizeFuture resolves path like Canonicalize but tolerates a
// path that does not exist yet: the deepest existing ancestor is
// resolved and the missing components are rejoined unchanged. The
// result equals what Canonicalize would return once the path is
// created, since missing components cannot hold symlinks.
func CanonicalizeFuture(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	abs = filepath.Clean(abs)

	existing := abs
	var missing []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		missing = append(missing, filepath.Base(existing))
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", errors.Wrapf(err, "resolving symlinks in %s", existing)
	}
	for i := len(missing) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, missing[i])
	}
	return resolved, nil
}

// IsWithin reports whether child is a strict descendant of parent.
// Both arguments must be canonical absolute paths. A path is not
// considered within itself.
func IsWithin(parent, child string) bool {
	if parent == child {
		return false
	}
	// Guard against "/foo" matching "/foobar".
	prefix := parent
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(child, prefix)
}

// ExpandHome expands a leading ~ to the user's home directory.
// Paths without a ~ prefix are returned unchanged. If the home directory
// cannot be determined, the path is returned unchanged.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}

	return path
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the sbu configuration directory.
// Returns: <ConfigHome>/sbu/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the path of the sbu configuration file.
// Returns: <ConfigHome>/sbu/config.yaml
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StripRoot converts a canonical absolute path into the relative form used
// inside the destination mirror and archive namespace: the path with its
// leading separator removed. "/etc/passwd" becomes "etc/passwd".
func StripRoot(abs string) string {
	clean := filepath.Clean(abs)
	if filepath.IsAbs(clean) && len(clean) > 0 && clean[0] == filepath.Separator {
		clean = clean[1:]
	}
	return clean
}
