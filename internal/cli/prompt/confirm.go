// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sbu-cli/sbu/internal/errors"
)

// Confirmer asks overwrite questions on a terminal.
//
// It backs the backup engine's injected confirmation callback; the
// engine itself never touches the terminal.
type Confirmer struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConfirmer creates a Confirmer using stdin and stdout.
func NewConfirmer() *Confirmer {
	return NewConfirmerWithIO(os.Stdin, os.Stdout)
}

// NewConfirmerWithIO creates a Confirmer with custom reader and writer for testing.
func NewConfirmerWithIO(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Overwrite asks whether the given target should be overwritten.
// Empty input, "y" and "yes" confirm; "n" and "no" decline; anything
// else re-asks. EOF (e.g. Ctrl+D, or an unattended run with closed
// stdin) declines.
func (c *Confirmer) Overwrite(target string) (bool, error) {
	for {
		fmt.Fprintf(c.writer, "Overwrite %q? [Yes/no]: ", target)

		input, err := c.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.writer)
				return false, nil
			}
			return false, errors.Wrap(err, "reading answer")
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}
