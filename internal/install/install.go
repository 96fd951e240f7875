package install

import (
	"fmt"

	"github.com/nixstrap/nixstrap/internal/common"
	"github.com/nixstrap/nixstrap/internal/params"
)

// Install runs nixos-install against the staging root. The root
// password prompt is suppressed; password policy lives in the
// assembled configuration.
func Install(mnt string) error {
	common.Info("Installing NixOS (this takes a while, packages come from cache.nixos.org)...")
	if err := common.Run("nixos-install", "--root", mnt, "--no-root-passwd"); err != nil {
		return fmt.Errorf("nixos-install: %w", err)
	}
	return nil
}

// Teardown unmounts the staging root and prints next steps.
func Teardown(p params.InstallParams, mnt string) error {
	common.Info("Unmounting filesystems...")
	if err := common.Run("umount", "-R", mnt); err != nil {
		return fmt.Errorf("umount %s: %w", mnt, err)
	}

	fmt.Println()
	common.Header("Installation complete!")
	fmt.Println("Next steps:")
	fmt.Println()
	fmt.Println("  1. Remove the installation media and reboot")
	fmt.Printf("  2. Log in as '%s' with the password you chose\n", p.Username)
	if p.DotfilesURL != "" {
		fmt.Printf("  3. Your dotfiles clone themselves on first boot into ~/dotfiles\n")
		fmt.Println("     If the repository is a flake, apply it with:")
		fmt.Printf("       sudo nixos-rebuild switch --flake ~/dotfiles#%s\n", p.Hostname)
	} else {
		fmt.Println("  3. Apply configuration changes with: sudo nixos-rebuild switch")
	}
	fmt.Println()
	fmt.Println("Run 'nixstrap-doctor' on the installed system to verify it.")
	fmt.Println()
	return nil
}
