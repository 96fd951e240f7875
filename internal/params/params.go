// Package params resolves the installation parameter set from built-in
// defaults, an optional nixstrap.toml file, command-line flags and
// derived values. The resolved set is validated once and treated as
// immutable for the rest of the run.
package params

import (
	"fmt"
	"strings"

	"github.com/nixstrap/nixstrap/internal/common"
)

// InstallParams is the single in-memory entity of the installer: one
// flat, validated record describing the whole run.
type InstallParams struct {
	Device       string // target block device, e.g. /dev/sda
	Username     string
	PasswordHash string // sha-512 crypt hash; the plaintext is never stored here
	Hostname     string
	Timezone     string
	Locale       string
	SwapMB       int
	RepoURL      string // Git repo holding the system configuration (optional)
	RepoPath     string // path of the configuration file inside the repo
	ArchiveURL   string // tar.xz archive alternative to RepoURL (optional)
	DotfilesURL  string // cloned once by the post-boot oneshot unit (optional)
	SSHKey       string // authorized key for the target user (optional)
}

// SourceKind describes where the system configuration comes from.
type SourceKind int

const (
	SourceInline SourceKind = iota // render the built-in template
	SourceGit
	SourceArchive
)

// Source returns how the system configuration should be obtained.
func (p InstallParams) Source() SourceKind {
	switch {
	case p.RepoURL != "":
		return SourceGit
	case p.ArchiveURL != "":
		return SourceArchive
	default:
		return SourceInline
	}
}

// Summary returns the operator-facing parameter listing shown before
// the confirmation gate. The password hash is elided.
func (p InstallParams) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Device:    %s\n", p.Device)
	fmt.Fprintf(&b, "  User:      %s\n", p.Username)
	fmt.Fprintf(&b, "  Hostname:  %s\n", p.Hostname)
	fmt.Fprintf(&b, "  Timezone:  %s\n", p.Timezone)
	fmt.Fprintf(&b, "  Locale:    %s\n", p.Locale)
	fmt.Fprintf(&b, "  Swap:      %d MB\n", p.SwapMB)
	switch p.Source() {
	case SourceGit:
		fmt.Fprintf(&b, "  Config:    %s (%s)\n", p.RepoURL, p.RepoPath)
	case SourceArchive:
		fmt.Fprintf(&b, "  Config:    %s (%s)\n", p.ArchiveURL, p.RepoPath)
	default:
		fmt.Fprintf(&b, "  Config:    built-in template\n")
	}
	if p.DotfilesURL != "" {
		fmt.Fprintf(&b, "  Dotfiles:  %s\n", p.DotfilesURL)
	}
	return b.String()
}

// Validate checks the resolved parameter set. It is called once, before
// any destructive action.
func (p InstallParams) Validate() error {
	if p.Device == "" {
		return fmt.Errorf("no target device specified")
	}
	if !common.IsValidDiskPath(p.Device) {
		return fmt.Errorf("invalid device path: %s", p.Device)
	}
	if !common.IsValidUsername(p.Username) {
		return fmt.Errorf("invalid username: %q", p.Username)
	}
	if p.PasswordHash == "" {
		return fmt.Errorf("no password set for user %s", p.Username)
	}
	if !common.IsValidHostname(p.Hostname) {
		return fmt.Errorf("invalid hostname: %q", p.Hostname)
	}
	if p.SwapMB <= 0 {
		return fmt.Errorf("swap size must be positive, got %d MB", p.SwapMB)
	}
	if p.RepoURL != "" && p.ArchiveURL != "" {
		return fmt.Errorf("--repo and --archive are mutually exclusive")
	}
	if p.RepoURL != "" && !common.IsValidRepoURL(p.RepoURL) {
		return fmt.Errorf("invalid repository URL: %q", p.RepoURL)
	}
	if p.DotfilesURL != "" && !common.IsValidRepoURL(p.DotfilesURL) {
		return fmt.Errorf("invalid dotfiles URL: %q", p.DotfilesURL)
	}
	if (p.RepoURL != "" || p.ArchiveURL != "") && p.RepoPath == "" {
		return fmt.Errorf("no in-repo config path specified")
	}
	if p.SSHKey != "" && !common.IsValidSSHKey(p.SSHKey) {
		return fmt.Errorf("invalid SSH public key")
	}
	// The existence probe comes last so shape errors surface first.
	if !common.BlockDeviceExists(p.Device) {
		return fmt.Errorf("not a block device: %s", p.Device)
	}
	return nil
}

// SwapMBFromRAM rounds the detected RAM up to whole GiB, floors it at
// minGB and returns the swap size in MB. 3500 MB RAM gives 4096 MB.
func SwapMBFromRAM(ramMB, minGB int) int {
	gb := (ramMB + 1023) / 1024
	if gb < minGB {
		gb = minGB
	}
	return gb * 1024
}

// HashPassword produces a salted sha-512 crypt hash via mkpasswd. The
// plaintext goes to mkpasswd on stdin only.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	hash, err := common.RunWithInput(plain, "mkpasswd", "-m", "sha-512", "--stdin")
	if err != nil {
		return "", fmt.Errorf("mkpasswd: %w", err)
	}
	if !strings.HasPrefix(hash, "$6$") {
		return "", fmt.Errorf("mkpasswd produced an unexpected hash format")
	}
	return hash, nil
}
