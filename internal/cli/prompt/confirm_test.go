package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_Overwrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty confirms", "\n", true},
		{"y confirms", "y\n", true},
		{"yes confirms", "yes\n", true},
		{"uppercase yes confirms", "YES\n", true},
		{"padded yes confirms", "  yes  \n", true},
		{"n declines", "n\n", false},
		{"no declines", "no\n", false},
		{"garbage then no", "maybe\nno\n", false},
		{"garbage then yes", "?\n\n", true},
		{"eof declines", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConfirmerWithIO(strings.NewReader(tt.input), &out)

			got, err := c.Overwrite("/backup/foo.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "/backup/foo.txt")
		})
	}
}

func TestConfirmer_ReasksUntilValid(t *testing.T) {
	var out bytes.Buffer
	c := NewConfirmerWithIO(strings.NewReader("what\nhuh\nn\n"), &out)

	got, err := c.Overwrite("/backup/foo.txt")
	require.NoError(t, err)
	assert.False(t, got)
	// Prompt shown once per attempt.
	assert.Equal(t, 3, strings.Count(out.String(), "Overwrite"))
}
