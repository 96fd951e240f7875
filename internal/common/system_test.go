package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionPaths(t *testing.T) {
	cases := []struct {
		disk string
		esp  string
		root string
	}{
		{"/dev/sda", "/dev/sda1", "/dev/sda2"},
		{"/dev/vdb", "/dev/vdb1", "/dev/vdb2"},
		{"/dev/nvme0n1", "/dev/nvme0n1p1", "/dev/nvme0n1p2"},
		{"/dev/mmcblk0", "/dev/mmcblk0p1", "/dev/mmcblk0p2"},
		{"/dev/loop3", "/dev/loop3p1", "/dev/loop3p2"},
	}
	for _, tc := range cases {
		esp, root := PartitionPaths(tc.disk)
		assert.Equal(t, tc.esp, esp, tc.disk)
		assert.Equal(t, tc.root, root, tc.disk)
	}
}

func TestIsValidDiskPath(t *testing.T) {
	valid := []string{"/dev/sda", "/dev/vdz", "/dev/xda", "/dev/nvme0n1", "/dev/nvme12n3", "/dev/mmcblk0", "/dev/loop0"}
	for _, p := range valid {
		assert.True(t, IsValidDiskPath(p), p)
	}
	invalid := []string{"", "/dev/sda1", "/dev/nvme0n1p2", "/dev/sd", "/tmp/sda", "sda", "/dev/sda; rm -rf /"}
	for _, p := range invalid {
		assert.False(t, IsValidDiskPath(p), p)
	}
}

func TestIsValidHostname(t *testing.T) {
	assert.True(t, IsValidHostname("nixos"))
	assert.True(t, IsValidHostname("my-host-01"))
	assert.True(t, IsValidHostname("a"))
	assert.False(t, IsValidHostname(""))
	assert.False(t, IsValidHostname("-leading"))
	assert.False(t, IsValidHostname("trailing-"))
	assert.False(t, IsValidHostname("has.dot"))
	assert.False(t, IsValidHostname("has space"))
	assert.False(t, IsValidHostname(`inject"ed`))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("nixos"))
	assert.True(t, IsValidUsername("_svc"))
	assert.True(t, IsValidUsername("jo-hn_2"))
	assert.False(t, IsValidUsername(""))
	assert.False(t, IsValidUsername("Root"))
	assert.False(t, IsValidUsername("1abc"))
	assert.False(t, IsValidUsername("a b"))
}

func TestIsValidRepoURL(t *testing.T) {
	assert.True(t, IsValidRepoURL("https://github.com/example/dotfiles.git"))
	assert.True(t, IsValidRepoURL("git@github.com:example/dotfiles.git"))
	assert.True(t, IsValidRepoURL("ssh://git@host/repo"))
	invalid := []string{
		"",
		"ftp://host/repo",
		`https://host/repo"; rm -rf /`,
		"https://host/repo with space",
		"https://host/$(whoami)",
		// Shell metacharacters: the URL is spliced into a generated
		// service script, so none of these may pass.
		"https://host/repo;reboot",
		"https://host/repo&reboot",
		"https://host/repo|tee",
		"https://host/repo<x",
		"https://host/repo>x",
		"https://host/repo(x)",
		"https://host/`reboot`",
	}
	for _, u := range invalid {
		assert.False(t, IsValidRepoURL(u), u)
	}
}

func TestIsValidSSHKey(t *testing.T) {
	assert.True(t, IsValidSSHKey("ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIMfake user@host"))
	assert.True(t, IsValidSSHKey("ssh-rsa AAAAB3NzaC1yc2E="))
	assert.False(t, IsValidSSHKey("not a key"))
	assert.False(t, IsValidSSHKey("ssh-ed25519 AAAA\nssh-rsa BBBB"))
}

func TestRAMMBFromMeminfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	content := "MemTotal:        3584000 kB\nMemFree:         1024000 kB\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	mb, err := ramMBFromMeminfo(path)
	require.NoError(t, err)
	assert.Equal(t, 3500, mb)
}

func TestRAMMBFromMeminfoMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte("MemFree: 12 kB\n"), 0644))

	_, err := ramMBFromMeminfo(path)
	assert.Error(t, err)
}
