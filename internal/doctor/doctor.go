// Package doctor runs read-only post-install diagnostics. Checks are
// best-effort: every check runs regardless of earlier failures and
// nothing on the system is mutated.
package doctor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nixstrap/nixstrap/internal/common"
)

// Options configures the diagnostic run.
type Options struct {
	User         string   // target user whose identity is checked
	ConfigDir    string   // expected cloned configuration directory
	Units        []string // services whose status is checked individually
	JournalLines int      // high-severity journal entries to show
	PingHost     string   // connectivity probe target
}

// DefaultOptions returns the options used when no flags override them.
func DefaultOptions() Options {
	return Options{
		User:         "nixos",
		Units:        []string{"sshd.service", "dotfiles-clone.service"},
		JournalLines: 20,
		PingHost:     "cache.nixos.org",
	}
}

// Check is one named diagnostic.
type Check struct {
	Name string
	Run  func() error
}

// Checks builds the diagnostic list for the options.
func Checks(opts Options) []Check {
	checks := []Check{
		{Name: "disk layout", Run: func() error {
			return common.Run("lsblk", "-o", "NAME,SIZE,TYPE,FSTYPE,MOUNTPOINT")
		}},
		{Name: "swap", Run: checkSwap},
		{Name: "hostname", Run: func() error {
			fmt.Println(common.GetHostname())
			return nil
		}},
		{Name: "connectivity", Run: func() error {
			return common.Run("ping", "-c", "1", "-W", "5", opts.PingHost)
		}},
		{Name: "user identity", Run: func() error {
			return common.Run("id", opts.User)
		}},
		{Name: "failed units", Run: checkFailedUnits},
	}
	for _, unit := range opts.Units {
		unit := unit
		checks = append(checks, Check{
			Name: "unit " + unit,
			Run:  func() error { return checkUnit(unit) },
		})
	}
	checks = append(checks,
		Check{Name: "nixos version", Run: func() error {
			return common.Run("nixos-version")
		}},
		Check{Name: "config directory", Run: func() error {
			if opts.ConfigDir == "" {
				fmt.Println("no config directory configured, skipping")
				return nil
			}
			if !common.FileExists(opts.ConfigDir) {
				return fmt.Errorf("%s does not exist", opts.ConfigDir)
			}
			fmt.Printf("%s present\n", opts.ConfigDir)
			return nil
		}},
		Check{Name: "boot entries", Run: func() error {
			return common.Run("bootctl", "list", "--no-pager")
		}},
		Check{Name: "journal errors", Run: func() error {
			return common.Run("journalctl", "-p", "err", "-b", "--no-pager", "-n", strconv.Itoa(opts.JournalLines))
		}},
		Check{Name: "configuration dry-build", Run: func() error {
			return common.Run("nixos-rebuild", "dry-build")
		}},
	)
	return checks
}

// RunChecks executes every check, reporting each outcome, and returns
// the number of failures.
func RunChecks(checks []Check) int {
	failed := 0
	for _, c := range checks {
		fmt.Printf("%s==> %s%s\n", common.Bold, c.Name, common.Reset)
		if err := c.Run(); err != nil {
			common.Error(fmt.Sprintf("%s: %v", c.Name, err))
			failed++
		} else {
			common.Success(c.Name)
		}
		fmt.Println()
	}
	return failed
}

// Run executes the full diagnostic suite and returns the failure count.
func Run(opts Options) int {
	common.Header("NixOS Post-Install Diagnostics")
	failed := RunChecks(Checks(opts))
	if failed == 0 {
		common.Success("All checks passed")
	} else {
		common.Warning(fmt.Sprintf("%d check(s) failed", failed))
	}
	return failed
}

func checkSwap() error {
	out, err := common.RunOutput("swapon", "--show")
	if err != nil {
		return fmt.Errorf("swapon: %w", err)
	}
	if out == "" {
		return fmt.Errorf("no active swap")
	}
	fmt.Println(out)
	return nil
}

func checkFailedUnits() error {
	units, err := listFailedUnits()
	if err != nil {
		return err
	}
	if len(units) > 0 {
		return fmt.Errorf("failed units: %s", strings.Join(units, ", "))
	}
	fmt.Println("no failed units")
	return nil
}

func checkUnit(unit string) error {
	state, err := unitActiveState(unit)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", unit, state)
	if state != "active" {
		return fmt.Errorf("%s is %s", unit, state)
	}
	return nil
}
