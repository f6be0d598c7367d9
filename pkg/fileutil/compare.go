package fileutil

import (
	"bytes"
	"io"
	"os"

	"github.com/sbu-cli/sbu/internal/errors"
)

// compareChunkSize is the buffer size used for content comparison.
const compareChunkSize = 64 * 1024

// SameContent reports whether two regular files have identical byte content.
// Files of different sizes are unequal without reading any content.
func SameContent(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", a)
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", b)
	}

	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	fa, err := os.Open(a)
	if err != nil {
		return false, errors.Wrapf(err, "opening %s", a)
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, errors.Wrapf(err, "opening %s", b)
	}
	defer fb.Close()

	bufA := make([]byte, compareChunkSize)
	bufB := make([]byte, compareChunkSize)

	for {
		nA, errA := io.ReadFull(fa, bufA)
		nB, errB := io.ReadFull(fb, bufB)

		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}

		endA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		endB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		switch {
		case endA && endB:
			return true, nil
		case endA != endB:
			return false, nil
		case errA != nil:
			return false, errors.Wrapf(errA, "reading %s", a)
		case errB != nil:
			return false, errors.Wrapf(errB, "reading %s", b)
		}
	}
}
