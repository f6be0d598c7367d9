// Package archive writes accepted backup entries into a single compressed
// container file instead of mirroring them as loose files.
//
// Supported formats are zip, plain tar, gzip tar, and zstd tar. The tar
// compressors come from github.com/klauspost/compress. Writes to the
// shared archive stream are inherently serial; callers add entries one
// at a time and must Close the writer to flush trailers.
package archive

import (
	"archive/tar"
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
)

// Format identifies an archive container format.
type Format string

// Supported archive formats.
const (
	FormatZip    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tgz"
	FormatTarZst Format = "tzst"
)

// ErrUnknownFormat indicates an unrecognized archive format name.
var ErrUnknownFormat = errors.New("unknown archive format")

// ParseFormat converts a format name (including common aliases) into a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "zip":
		return FormatZip, nil
	case "tar":
		return FormatTar, nil
	case "tgz", "gztar", "tar.gz":
		return FormatTarGz, nil
	case "tzst", "zstdtar", "tar.zst":
		return FormatTarZst, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Formats returns the canonical format names, for CLI help text.
func Formats() []string {
	return []string{"zip", "tar", "tgz", "tzst"}
}

// Ext returns the file extension for the format, including the leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatZip:
		return ".zip"
	case FormatTar:
		return ".tar"
	case FormatTarGz:
		return ".tar.gz"
	case FormatTarZst:
		return ".tar.zst"
	default:
		return ""
	}
}

// Default archive naming inside a destination directory.
const (
	// DefaultBaseName is the archive name used when the destination is a directory.
	DefaultBaseName = "backup.sbu"

	// MaxNameIndex bounds the "-1", "-2", ... suffix search for a free default name.
	MaxNameIndex = 100
)

// ErrNoFreeName indicates no free default archive name could be generated.
var ErrNoFreeName = errors.New("no free default archive name available")

// ResolveTarget determines the archive file path for a destination.
//
// If dest is an existing directory, a default name (backup.sbu<ext>) is
// placed inside it; when taken, indexed variants backup.sbu-1<ext> ...
// are tried up to MaxNameIndex. Otherwise dest names the archive file
// itself; the format extension is appended when missing and the parent
// directory must exist.
func ResolveTarget(dest string, f Format) (string, error) {
	ext := f.Ext()

	info, err := os.Stat(dest)
	if err == nil && info.IsDir() {
		candidate := filepath.Join(dest, DefaultBaseName+ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
		for i := 1; i <= MaxNameIndex; i++ {
			candidate = filepath.Join(dest, DefaultBaseName+"-"+strconv.Itoa(i)+ext)
			if _, err := os.Stat(candidate); os.IsNotExist(err) {
				return candidate, nil
			}
		}
		return "", ErrNoFreeName
	}

	parent := filepath.Dir(dest)
	pinfo, err := os.Stat(parent)
	if err != nil || !pinfo.IsDir() {
		return "", errors.Newf("destination directory %s does not exist", parent)
	}

	if !strings.HasSuffix(dest, ext) {
		dest += ext
	}
	return dest, nil
}


// Writer streams files and directory trees into one archive.
type Writer struct {
	format Format

	zipW *zip.Writer
	tarW *tar.Writer

	// compressor sits between the tar writer and the underlying stream.
	compressor io.Closer
}

// NewWriter creates a Writer emitting the given format to w.
func NewWriter(w io.Writer, f Format) (*Writer, error) {
	switch f {
	case FormatZip:
		return &Writer{format: f, zipW: zip.NewWriter(w)}, nil
	case FormatTar:
		return &Writer{format: f, tarW: tar.NewWriter(w)}, nil
	case FormatTarGz:
		gz := gzip.NewWriter(w)
		return &Writer{format: f, tarW: tar.NewWriter(gz), compressor: gz}, nil
	case FormatTarZst:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd writer")
		}
		return &Writer{format: f, tarW: tar.NewWriter(zw), compressor: zw}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(f))
	}
}

// AddPath adds the file or directory tree at canonical path p to the
// archive. Entry names are the canonical path minus the leading
// separator, so "/etc/passwd" is stored as "etc/passwd". Returns the
// number of files added.
func (w *Writer) AddPath(p string) (int, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", p)
	}

	if !info.IsDir() {
		if err := w.addFile(p, info, paths.StripRoot(p)); err != nil {
			return 0, err
		}
		return 1, nil
	}

	added := 0
	err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", path)
		}
		name := paths.StripRoot(path)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", path)
			}
			return w.addDir(name, info)
		}

		info, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, "stat %s", path)
		}
		if !info.Mode().IsRegular() {
			// Sockets, fifos, device nodes and symlinks are not archived.
			return nil
		}
		if err := w.addFile(path, info, name); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

func (w *Writer) addDir(name string, info fs.FileInfo) error {
	if w.tarW != nil {
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return errors.Wrapf(err, "tar header for %s", name)
		}
		hdr.Name = name + "/"
		return errors.Wrapf(w.tarW.WriteHeader(hdr), "writing tar header for %s", name)
	}
	// zip directories are implied by member paths.
	return nil
}

func (w *Writer) addFile(path string, info fs.FileInfo, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	if w.zipW != nil {
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return errors.Wrapf(err, "zip header for %s", name)
		}
		hdr.Name = name
		hdr.Method = zip.Deflate

		dst, err := w.zipW.CreateHeader(hdr)
		if err != nil {
			return errors.Wrapf(err, "creating zip entry %s", name)
		}
		_, err = io.Copy(dst, f)
		return errors.Wrapf(err, "writing zip entry %s", name)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrapf(err, "tar header for %s", name)
	}
	hdr.Name = name
	if err := w.tarW.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "writing tar header for %s", name)
	}
	_, err = io.Copy(w.tarW, f)
	return errors.Wrapf(err, "writing tar entry %s", name)
}

// Close flushes and closes the archive trailers. It does not close the
// underlying stream the Writer was created with.
func (w *Writer) Close() error {
	if w.zipW != nil {
		return errors.Wrap(w.zipW.Close(), "closing zip writer")
	}
	if err := w.tarW.Close(); err != nil {
		return errors.Wrap(err, "closing tar writer")
	}
	if w.compressor != nil {
		return errors.Wrap(w.compressor.Close(), "closing compressor")
	}
	return nil
}
