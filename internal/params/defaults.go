package params

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults is the nixstrap.toml schema. Every field is optional;
// missing fields keep their built-in value.
type Defaults struct {
	Username    string `toml:"username"`
	Hostname    string `toml:"hostname"`
	Timezone    string `toml:"timezone"`
	Locale      string `toml:"locale"`
	SwapMinGB   int    `toml:"swap_min_gb"`
	RepoPath    string `toml:"repo_path"`
	DotfilesURL string `toml:"dotfiles_url"`
}

// BuiltinDefaults returns the hardcoded defaults used when no
// nixstrap.toml overrides them.
func BuiltinDefaults() Defaults {
	return Defaults{
		Username:  "nixos",
		Hostname:  "nixos",
		Timezone:  "UTC",
		Locale:    "en_US.UTF-8",
		SwapMinGB: 2,
		RepoPath:  "configuration.nix",
	}
}

// LoadDefaults reads the defaults file, falling back to the built-ins
// when the file is missing. A present-but-broken file is an error.
func LoadDefaults(path string) (Defaults, error) {
	d := BuiltinDefaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, err
	}
	if _, err := toml.Decode(string(data), &d); err != nil {
		return d, err
	}
	if d.SwapMinGB <= 0 {
		d.SwapMinGB = BuiltinDefaults().SwapMinGB
	}
	return d, nil
}
