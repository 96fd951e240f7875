package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStdin runs fn with os.Stdin replaced by a pipe fed the given
// input. An empty input closes the pipe immediately (EOF).
func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	old := os.Stdin
	os.Stdin = r
	defer func() {
		os.Stdin = old
		r.Close()
	}()
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	fn()
}

func TestConfirmLiteral(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact token", "yes\n", true},
		{"token with trailing space", "yes \n", true},
		{"abbreviation declines", "y\n", false},
		{"no declines", "no\n", false},
		{"uppercase declines", "YES\n", false},
		{"empty line declines", "\n", false},
		{"closed stdin declines", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withStdin(t, tc.input, func() {
				assert.Equal(t, tc.want, ConfirmLiteral("Proceed?", "yes"))
			})
		})
	}
}
