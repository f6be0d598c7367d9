// Package listfile loads the plain-text backup list file.
//
// A list file nominates one path per line. Lines starting with # are
// comments, blank lines are ignored, and a leading ~ is expanded to the
// user's home directory. The loader does no validation beyond that; the
// backup engine's validator decides which paths are safe to include.
package listfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
)

// Load reads the list file at path and returns the nominated paths in
// file order, comments and blank lines stripped.
//
// Returns ErrListFileNotFound if the path does not exist or does not
// refer to a regular file.
func Load(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrListFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(errors.ErrListFileNotFound, "%s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads nominated paths from r, one per line.
// Exposed separately so tests and alternative sources can feed a reader.
func Parse(r io.Reader) ([]string, error) {
	var result []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result = append(result, paths.ExpandHome(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading list")
	}

	return result, nil
}
