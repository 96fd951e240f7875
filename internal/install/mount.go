package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nixstrap/nixstrap/internal/common"
)

// MountTarget mounts the root partition at the staging root and the
// ESP under its boot subdirectory.
func MountTarget(esp, root, mnt string) error {
	common.Info("Mounting filesystems...")
	if err := common.Run("mount", root, mnt); err != nil {
		return fmt.Errorf("mount %s: %w", root, err)
	}
	boot := filepath.Join(mnt, "boot")
	if err := os.MkdirAll(boot, 0755); err != nil {
		return fmt.Errorf("create %s: %w", boot, err)
	}
	if err := common.Run("mount", esp, boot); err != nil {
		return fmt.Errorf("mount %s: %w", esp, err)
	}
	return nil
}
