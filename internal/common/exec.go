package common

import (
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Run executes a command and streams output to stdout/stderr
func Run(name string, args ...string) error {
	logCommand(name, args)
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// RunQuiet executes a command without output
func RunQuiet(name string, args ...string) error {
	logCommand(name, args)
	cmd := exec.Command(name, args...)
	return cmd.Run()
}

// RunOutput executes a command and returns its trimmed output
func RunOutput(name string, args ...string) (string, error) {
	logCommand(name, args)
	cmd := exec.Command(name, args...)
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// RunWithInput executes a command, feeds it input on stdin and returns
// its trimmed output. The input never appears in argv or the environment.
func RunWithInput(input, name string, args ...string) (string, error) {
	logCommand(name, args)
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

func logCommand(name string, args []string) {
	logrus.WithField("exec", name).Debug(strings.Join(append([]string{name}, args...), " "))
}

// SetVerbose enables debug logging of every external command invocation
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// IsRoot checks if running as root
func IsRoot() bool {
	return os.Geteuid() == 0
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BlockDeviceExists checks if a block device exists
func BlockDeviceExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeDevice != 0
}

// IsMounted checks if a path is a mountpoint
func IsMounted(path string) bool {
	err := RunQuiet("mountpoint", "-q", path)
	return err == nil
}
