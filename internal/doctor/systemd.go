package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	sd "github.com/coreos/go-systemd/v22/dbus"

	"github.com/nixstrap/nixstrap/internal/common"
)

const dbusTimeout = 10 * time.Second

// listFailedUnits asks systemd over D-Bus for failed units, falling
// back to systemctl when the bus is unavailable (e.g. inside a chroot).
func listFailedUnits() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbusTimeout)
	defer cancel()

	conn, err := sd.NewSystemConnectionContext(ctx)
	if err != nil {
		return failedUnitsViaSystemctl()
	}
	defer conn.Close()

	units, err := conn.ListUnitsFilteredContext(ctx, []string{"failed"})
	if err != nil {
		return failedUnitsViaSystemctl()
	}
	var names []string
	for _, u := range units {
		names = append(names, u.Name)
	}
	return names, nil
}

// unitActiveState returns the ActiveState of a unit, preferring D-Bus
// with the same systemctl fallback.
func unitActiveState(unit string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbusTimeout)
	defer cancel()

	conn, err := sd.NewSystemConnectionContext(ctx)
	if err != nil {
		return unitStateViaSystemctl(unit)
	}
	defer conn.Close()

	statuses, err := conn.ListUnitsByNamesContext(ctx, []string{unit})
	if err != nil || len(statuses) == 0 {
		return unitStateViaSystemctl(unit)
	}
	return statuses[0].ActiveState, nil
}

func failedUnitsViaSystemctl() ([]string, error) {
	out, err := common.RunOutput("systemctl", "--failed", "--no-legend", "--plain")
	if err != nil {
		return nil, fmt.Errorf("systemctl --failed: %w", err)
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names, nil
}

func unitStateViaSystemctl(unit string) (string, error) {
	// is-active exits nonzero for anything but "active"; the state name
	// is still printed, which is what we want.
	out, _ := common.RunOutput("systemctl", "is-active", unit)
	if out == "" {
		return "", fmt.Errorf("could not determine state of %s", unit)
	}
	return out, nil
}
