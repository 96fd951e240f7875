package nixcfg

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// buildTarXz builds an in-memory tar.xz archive from name->content pairs.
func buildTarXz(t *testing.T, files map[string]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	xzWriter, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	tarWriter := tar.NewWriter(xzWriter)
	for name, content := range files {
		require.NoError(t, tarWriter.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(content)),
		}))
		_, err := tarWriter.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tarWriter.Close())
	require.NoError(t, xzWriter.Close())
	return &buf
}

func TestExtractFromTarXz(t *testing.T) {
	archive := buildTarXz(t, map[string]string{
		"./README.md":             "readme",
		"./hosts/atlas.nix":       "{ networking.hostName = \"atlas\"; }",
		"./configuration.nix":     "{ imports = [ ]; }",
		"other/configuration.nix": "wrong one",
	})

	content, err := ExtractFromTarXz(bytes.NewReader(archive.Bytes()), "hosts/atlas.nix")
	require.NoError(t, err)
	assert.Equal(t, "{ networking.hostName = \"atlas\"; }", content)
}

func TestExtractFromTarXzIgnoresLeadingDotSlash(t *testing.T) {
	archive := buildTarXz(t, map[string]string{
		"./configuration.nix": "{ }",
	})

	content, err := ExtractFromTarXz(bytes.NewReader(archive.Bytes()), "configuration.nix")
	require.NoError(t, err)
	assert.Equal(t, "{ }", content)
}

func TestExtractFromTarXzMissingEntry(t *testing.T) {
	archive := buildTarXz(t, map[string]string{
		"./README.md": "readme",
	})

	_, err := ExtractFromTarXz(bytes.NewReader(archive.Bytes()), "configuration.nix")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExtractFromTarXzBadStream(t *testing.T) {
	_, err := ExtractFromTarXz(bytes.NewReader([]byte("not xz data")), "configuration.nix")
	assert.Error(t, err)
}
