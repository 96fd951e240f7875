// Package nixcfg assembles the declarative system configuration that
// nixos-install consumes: it fetches or renders configuration.nix,
// guarantees the hardware-configuration import and fills in the
// computed swap size.
package nixcfg

import (
	"archive/tar"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/nixstrap/nixstrap/internal/common"
	"github.com/nixstrap/nixstrap/internal/params"
)

// FetchFromGit clones the repository to a scratch directory, reads the
// configuration file out of it and removes the clone again.
func FetchFromGit(repoURL, repoPath string) (string, error) {
	scratch, err := os.MkdirTemp("", "nixstrap-clone-")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := common.Run("git", "clone", "--depth=1", repoURL, scratch); err != nil {
		return "", fmt.Errorf("git clone %s: %w", repoURL, err)
	}

	full := filepath.Join(scratch, filepath.Clean("/"+repoPath))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s from clone: %w", repoPath, err)
	}
	return string(data), nil
}

// FetchFromArchive downloads a tar.xz archive and extracts the
// configuration file from it without unpacking the rest.
func FetchFromArchive(url, repoPath string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: HTTP %d", url, resp.StatusCode)
	}
	return ExtractFromTarXz(resp.Body, repoPath)
}

// ExtractFromTarXz streams a tar.xz archive and returns the contents of
// the entry matching want (leading "./" ignored).
func ExtractFromTarXz(r io.Reader, want string) (string, error) {
	xzReader, err := xz.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("open xz stream: %w", err)
	}
	want = strings.TrimPrefix(filepath.Clean("/"+want), "/")

	tarReader := tar.NewReader(xzReader)
	for {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read archive: %w", err)
		}
		name := strings.TrimPrefix(filepath.Clean("/"+hdr.Name), "/")
		if name != want || hdr.Typeflag == tar.TypeDir {
			continue
		}
		data, err := io.ReadAll(tarReader)
		if err != nil {
			return "", fmt.Errorf("read %s from archive: %w", want, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("%s not found in archive", want)
}

// Assemble produces /etc/nixos under the staging root: it runs the
// hardware scan, obtains configuration.nix from the configured source
// and post-processes it.
func Assemble(p params.InstallParams, root string) error {
	common.Info("Generating hardware configuration...")
	if err := common.Run("nixos-generate-config", "--root", root); err != nil {
		return fmt.Errorf("nixos-generate-config: %w", err)
	}

	var content string
	var err error
	switch p.Source() {
	case params.SourceGit:
		common.Info(fmt.Sprintf("Fetching configuration from %s...", p.RepoURL))
		content, err = FetchFromGit(p.RepoURL, p.RepoPath)
	case params.SourceArchive:
		common.Info(fmt.Sprintf("Fetching configuration archive %s...", p.ArchiveURL))
		content, err = FetchFromArchive(p.ArchiveURL, p.RepoPath)
	default:
		common.Info("Rendering built-in configuration template...")
		content, err = RenderTemplate(p)
	}
	if err != nil {
		return err
	}

	content, err = EnsureHardwareImport(content)
	if err != nil {
		return err
	}
	content = SubstituteSwap(content, p.SwapMB)

	dest := filepath.Join(root, "etc", "nixos", "configuration.nix")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	// Contains the password hash, keep it root-only.
	if err := os.WriteFile(dest, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	common.Success("Configuration written to " + dest)
	return nil
}
