package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsMissingFile(t *testing.T) {
	d, err := LoadDefaults(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, BuiltinDefaults(), d)
}

func TestLoadDefaultsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nixstrap.toml")
	content := `
username = "alice"
timezone = "Europe/Berlin"
swap_min_gb = 4
dotfiles_url = "https://example.com/dotfiles.git"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	d, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", d.Username)
	assert.Equal(t, "Europe/Berlin", d.Timezone)
	assert.Equal(t, 4, d.SwapMinGB)
	assert.Equal(t, "https://example.com/dotfiles.git", d.DotfilesURL)
	// Untouched fields keep their built-in values.
	assert.Equal(t, "nixos", d.Hostname)
	assert.Equal(t, "configuration.nix", d.RepoPath)
}

func TestLoadDefaultsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nixstrap.toml")
	require.NoError(t, os.WriteFile(path, []byte("username = [broken"), 0644))

	_, err := LoadDefaults(path)
	assert.Error(t, err)
}
