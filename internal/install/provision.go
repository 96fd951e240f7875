package install

import (
	"fmt"
	"time"

	"github.com/nixstrap/nixstrap/internal/common"
)

// partitionSettleTimeout bounds how long we wait for the kernel to
// expose the new partition device nodes after a table rewrite.
const partitionSettleTimeout = 10 * time.Second

// Provision destroys the existing partition table, creates the ESP and
// root partitions, waits for the kernel to pick them up and formats
// both. Any failure aborts the run; there is no rollback.
func Provision(device, esp, root string) error {
	common.Info(fmt.Sprintf("Partitioning %s...", device))
	cmds := [][]string{
		{"sgdisk", "--zap-all", device},
		{"sgdisk", "-n", "1:1M:+512M", "-t", "1:ef00", "-c", "1:EFI", device},
		{"sgdisk", "-n", "2:0:0", "-t", "2:8300", "-c", "2:nixos", device},
	}
	for _, cmd := range cmds {
		if err := common.Run(cmd[0], cmd[1:]...); err != nil {
			return fmt.Errorf("%s: %w", cmd[0], err)
		}
	}

	common.Info("Waiting for the kernel to reread the partition table...")
	common.RunQuiet("partprobe", device)
	common.RunQuiet("udevadm", "settle")
	if err := waitForPartitions(esp, root); err != nil {
		return err
	}

	common.Info("Formatting partitions...")
	if err := common.Run("mkfs.fat", "-F", "32", "-n", "boot", esp); err != nil {
		return fmt.Errorf("mkfs.fat %s: %w", esp, err)
	}
	if err := common.Run("mkfs.ext4", "-F", "-L", "nixos", root); err != nil {
		return fmt.Errorf("mkfs.ext4 %s: %w", root, err)
	}
	common.Success("Disk provisioned")
	return nil
}

// waitForPartitions polls for the partition device nodes instead of
// sleeping a fixed interval.
func waitForPartitions(paths ...string) error {
	deadline := time.Now().Add(partitionSettleTimeout)
	for {
		ready := true
		for _, p := range paths {
			if !common.BlockDeviceExists(p) {
				ready = false
				break
			}
		}
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("partition devices %v did not appear within %s", paths, partitionSettleTimeout)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
