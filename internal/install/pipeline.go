// Package install drives the destructive part of the run: disk
// provisioning, mount assembly, configuration assembly, the installer
// invocation and teardown. Stages run in order and the first failure
// halts the whole run; partitioning is not rolled back.
package install

import (
	"fmt"

	"github.com/nixstrap/nixstrap/internal/common"
	"github.com/nixstrap/nixstrap/internal/nixcfg"
	"github.com/nixstrap/nixstrap/internal/params"
)

// MountPoint is the staging root the target system is assembled under.
const MountPoint = "/mnt"

// Stage is one step of the installation pipeline.
type Stage struct {
	Name string
	Run  func() error
}

// RunStages executes the stages in order, stopping at the first
// failure. The returned error names the failing stage.
func RunStages(stages []Stage) error {
	for _, s := range stages {
		if err := s.Run(); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name, err)
		}
	}
	return nil
}

// Pipeline builds the stage list for a validated parameter set.
func Pipeline(p params.InstallParams) []Stage {
	esp, root := common.PartitionPaths(p.Device)
	return []Stage{
		{Name: "provision", Run: func() error { return Provision(p.Device, esp, root) }},
		{Name: "mount", Run: func() error { return MountTarget(esp, root, MountPoint) }},
		{Name: "configure", Run: func() error { return nixcfg.Assemble(p, MountPoint) }},
		{Name: "install", Run: func() error { return Install(MountPoint) }},
		{Name: "teardown", Run: func() error { return Teardown(p, MountPoint) }},
	}
}

// Run executes the full pipeline.
func Run(p params.InstallParams) error {
	return RunStages(Pipeline(p))
}

// Gate shows the resolved parameters and requires the literal "yes"
// before anything destructive happens. With assumeYes the prompt is
// skipped but the summary is still printed.
func Gate(p params.InstallParams, assumeYes bool) bool {
	common.Header("NixOS Installation")
	fmt.Print(p.Summary())
	fmt.Println()
	common.Warning(fmt.Sprintf("This will ERASE ALL DATA on %s", p.Device))
	common.Warning("Interrupting a running install leaves the disk partially written")
	if assumeYes {
		return true
	}
	return common.ConfirmLiteral("Proceed?", "yes")
}
