package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nixstrap/nixstrap/internal/common"
	"github.com/nixstrap/nixstrap/internal/install"
	"github.com/nixstrap/nixstrap/internal/params"
)

var version = "dev"

const usage = `nixstrap - install NixOS onto a target disk

Installs a minimal NixOS system: partitions the disk (ESP + ext4 root),
generates the hardware configuration, assembles configuration.nix from
a Git repository, a tar.xz archive or a built-in template, and runs
nixos-install. Run with no arguments to list disks and this help.

WARNING: the target disk is erased. Interrupting a running install
leaves the disk in whatever state it already reached; nothing is
rolled back.

Usage:
  nixstrap [flags]

Flags:
`

// cliFlags holds parsed command line flags
type cliFlags struct {
	device       string
	user         string
	password     string
	passwordHash string
	hostname     string
	timezone     string
	locale       string
	repo         string
	repoPath     string
	archive      string
	dotfiles     string
	sshKey       string
	configPath   string
	swapGB       int
	yes          bool
	verbose      bool
}

// parseFlags parses and returns CLI flags
func parseFlags() cliFlags {
	device := flag.String("device", "", "Target block device (e.g. /dev/sda)")
	user := flag.String("user", "", "Username for the primary account")
	password := flag.String("password", "", "Password for the primary account (prompted if omitted)")
	passwordHash := flag.String("password-hash", "", "Pre-computed sha-512 crypt hash (skips hashing)")
	hostname := flag.String("hostname", "", "Hostname of the installed system")
	timezone := flag.String("timezone", "", "Timezone (e.g. Europe/Berlin)")
	locale := flag.String("locale", "", "System locale")
	repo := flag.String("repo", "", "Git repository holding the system configuration")
	repoPath := flag.String("config-path", "", "Path of the configuration file inside the repo/archive")
	archive := flag.String("archive", "", "tar.xz archive URL holding the system configuration")
	dotfiles := flag.String("dotfiles", "", "Dotfiles repository cloned once on first boot")
	sshKey := flag.String("ssh-key", "", "SSH public key for the primary account")
	configPath := flag.String("config", "nixstrap.toml", "Path to the defaults file")
	swapGB := flag.Int("swap", 0, "Swap size in GB (derived from RAM if 0)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt (still prints the summary)")
	verbose := flag.Bool("verbose", false, "Log every external command")
	showVersion := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("nixstrap %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelpAndDisks()
		os.Exit(0)
	}

	return cliFlags{
		device:       *device,
		user:         *user,
		password:     *password,
		passwordHash: *passwordHash,
		hostname:     *hostname,
		timezone:     *timezone,
		locale:       *locale,
		repo:         *repo,
		repoPath:     *repoPath,
		archive:      *archive,
		dotfiles:     *dotfiles,
		sshKey:       *sshKey,
		configPath:   *configPath,
		swapGB:       *swapGB,
		yes:          *yes,
		verbose:      *verbose,
	}
}

func printHelpAndDisks() {
	common.ListBlockDevices()
	fmt.Print(usage)
	flag.PrintDefaults()
}

// resolve merges defaults, flags and interactive prompts into the
// parameter set. Prompting only happens for values that are still
// missing; with --yes nothing is prompted.
func resolve(flags cliFlags, defaults params.Defaults) (params.InstallParams, error) {
	interactive := !flags.yes

	device := flags.device
	if device == "" && interactive {
		common.ListBlockDevices()
		device = common.Prompt("Target disk (WILL BE ERASED)", common.DetectDisk())
	}

	user := flags.user
	if user == "" {
		if interactive {
			user = common.Prompt("Username", defaults.Username)
		} else {
			user = defaults.Username
		}
	}

	hostname := flags.hostname
	if hostname == "" {
		if interactive {
			hostname = common.Prompt("Hostname", defaults.Hostname)
		} else {
			hostname = defaults.Hostname
		}
	}

	hash, err := resolvePassword(flags, interactive)
	if err != nil {
		return params.InstallParams{}, err
	}

	swapMB, err := resolveSwap(flags.swapGB, defaults.SwapMinGB)
	if err != nil {
		return params.InstallParams{}, err
	}

	timezone := flags.timezone
	if timezone == "" {
		timezone = defaults.Timezone
	}
	locale := flags.locale
	if locale == "" {
		locale = defaults.Locale
	}
	repoPath := flags.repoPath
	if repoPath == "" {
		repoPath = defaults.RepoPath
	}
	dotfiles := flags.dotfiles
	if dotfiles == "" {
		dotfiles = defaults.DotfilesURL
	}

	return params.InstallParams{
		Device:       device,
		Username:     user,
		PasswordHash: hash,
		Hostname:     hostname,
		Timezone:     timezone,
		Locale:       locale,
		SwapMB:       swapMB,
		RepoURL:      flags.repo,
		RepoPath:     repoPath,
		ArchiveURL:   flags.archive,
		DotfilesURL:  dotfiles,
		SSHKey:       flags.sshKey,
	}, nil
}

func resolvePassword(flags cliFlags, interactive bool) (string, error) {
	if flags.passwordHash != "" {
		return flags.passwordHash, nil
	}
	plain := flags.password
	if plain == "" && interactive {
		plain = common.PromptSecret("Password for the primary account")
		confirm := common.PromptSecret("Confirm password")
		if plain != confirm {
			return "", fmt.Errorf("passwords do not match")
		}
	}
	if plain == "" {
		return "", fmt.Errorf("a password is required (--password, --password-hash, or interactive prompt)")
	}
	return params.HashPassword(plain)
}

func resolveSwap(swapGB, minGB int) (int, error) {
	if swapGB > 0 {
		return swapGB * 1024, nil
	}
	if swapGB < 0 {
		return 0, fmt.Errorf("swap size must be positive, got %d GB", swapGB)
	}
	ramMB, err := common.DetectRAMMB()
	if err != nil {
		common.Warning(fmt.Sprintf("Could not detect RAM (%v), using the minimum swap size", err))
		return minGB * 1024, nil
	}
	return params.SwapMBFromRAM(ramMB, minGB), nil
}

func main() {
	flags := parseFlags()

	// No arguments: list disks and usage, touch nothing, exit clean.
	if len(os.Args) < 2 {
		printHelpAndDisks()
		os.Exit(0)
	}

	common.SetVerbose(flags.verbose)

	if !common.IsRoot() {
		common.Error("Must be run as root")
		fmt.Println("Usage: sudo nixstrap --device=/dev/sdX ...")
		os.Exit(1)
	}

	defaults, err := params.LoadDefaults(flags.configPath)
	if err != nil {
		common.Error(fmt.Sprintf("Failed to load %s: %v", flags.configPath, err))
		os.Exit(1)
	}

	p, err := resolve(flags, defaults)
	if err != nil {
		common.Error(err.Error())
		os.Exit(1)
	}
	if err := p.Validate(); err != nil {
		common.Error(err.Error())
		os.Exit(1)
	}

	if !install.Gate(p, flags.yes) {
		fmt.Println("Aborted. Nothing was written.")
		os.Exit(0)
	}

	if err := install.Run(p); err != nil {
		common.Error(fmt.Sprintf("Installation failed: %v", err))
		os.Exit(1)
	}
}
