package nixcfg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const hardwareImport = "./hardware-configuration.nix"

// SwapPlaceholder is recognized in fetched configuration files and
// replaced with the computed swap size in MB.
const SwapPlaceholder = "@SWAP_MB@"

var (
	importsListRe = regexp.MustCompile(`imports\s*=\s*\[`)
	moduleBodyRe  = regexp.MustCompile(`\}\s*:\s*\n*\s*\{`)
)

// EnsureHardwareImport makes sure the configuration imports the
// generated hardware fragment. Idempotent: a file that already carries
// the import is returned unchanged, so re-runs never duplicate it.
func EnsureHardwareImport(content string) (string, error) {
	if strings.Contains(content, "hardware-configuration.nix") {
		return content, nil
	}

	if loc := importsListRe.FindStringIndex(content); loc != nil {
		return content[:loc[1]] + "\n    " + hardwareImport + content[loc[1]:], nil
	}

	// No imports list at all: add one right after the module body opens.
	if loc := moduleBodyRe.FindStringIndex(content); loc != nil {
		insert := "\n  imports = [ " + hardwareImport + " ];\n"
		return content[:loc[1]] + insert + content[loc[1]:], nil
	}

	return "", fmt.Errorf("could not locate a module body to add the hardware-configuration import to")
}

// SubstituteSwap replaces the swap placeholder with the computed size.
// Files without the placeholder pass through untouched.
func SubstituteSwap(content string, swapMB int) string {
	return strings.ReplaceAll(content, SwapPlaceholder, strconv.Itoa(swapMB))
}
