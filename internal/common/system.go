package common

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// GetHostname returns the system hostname
func GetHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

// DetectDisk auto-detects the primary disk
func DetectDisk() string {
	disks := []string{"/dev/vda", "/dev/sda", "/dev/nvme0n1", "/dev/xvda"}
	for _, disk := range disks {
		if BlockDeviceExists(disk) {
			return disk
		}
	}
	return ""
}

// PartitionPaths returns the ESP and root partition paths for a disk.
// Devices whose name ends in a digit (nvme0n1, mmcblk0, loop0) take a
// 'p' separator before the partition number.
func PartitionPaths(disk string) (esp, root string) {
	sep := ""
	if len(disk) > 0 && disk[len(disk)-1] >= '0' && disk[len(disk)-1] <= '9' {
		sep = "p"
	}
	return disk + sep + "1", disk + sep + "2"
}

// ListBlockDevices prints the available disks via lsblk
func ListBlockDevices() {
	fmt.Println("Available block devices:")
	fmt.Println()
	if err := Run("lsblk", "-d", "-o", "NAME,SIZE,TYPE,MODEL"); err != nil {
		Warning("lsblk not available; check /dev for disks")
	}
	fmt.Println()
}

// DetectRAMMB reads MemTotal from /proc/meminfo and returns it in MB
func DetectRAMMB() (int, error) {
	return ramMBFromMeminfo("/proc/meminfo")
}

func ramMBFromMeminfo(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("parse MemTotal: %w", err)
		}
		return kb / 1024, nil
	}
	return 0, fmt.Errorf("MemTotal not found in %s", path)
}

var (
	diskPathRe = regexp.MustCompile(`^/dev/(nvme\d+n\d+|mmcblk\d+|[svx]d[a-z]|loop\d+)$`)
	hostnameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
	usernameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
	repoURLRe  = regexp.MustCompile(`^(https://|http://|git@|ssh://)[A-Za-z0-9._~:/?#@!*+,=%-]+$`)
)

// IsValidDiskPath validates a disk device path
func IsValidDiskPath(path string) bool {
	return diskPathRe.MatchString(path)
}

// IsValidHostname validates a hostname (alphanumerics and hyphens, 1-63 chars)
func IsValidHostname(hostname string) bool {
	return hostnameRe.MatchString(hostname)
}

// IsValidUsername validates a Unix username
func IsValidUsername(name string) bool {
	return usernameRe.MatchString(name)
}

// IsValidRepoURL validates a Git repository URL. Quotes, whitespace and
// shell metacharacters are rejected because the URL ends up inside a
// generated Nix file that contains a shell script.
func IsValidRepoURL(url string) bool {
	if strings.ContainsAny(url, "\"'`$;&|<>() \t\n\r") {
		return false
	}
	return repoURLRe.MatchString(url)
}

// IsValidSSHKey validates an SSH public key format
func IsValidSSHKey(key string) bool {
	key = strings.TrimSpace(key)
	if strings.ContainsAny(key, "\n\r") {
		return false
	}
	pattern := `^(ssh-rsa|ssh-ed25519|ssh-dss|ecdsa-sha2-nistp256|ecdsa-sha2-nistp384|ecdsa-sha2-nistp521)\s+[A-Za-z0-9+/]+=*(\s+.*)?$`
	matched, _ := regexp.MatchString(pattern, key)
	return matched
}
