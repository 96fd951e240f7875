package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nixstrap/nixstrap/internal/common"
	"github.com/nixstrap/nixstrap/internal/doctor"
)

var version = "dev"

const usage = `nixstrap-doctor - read-only post-install diagnostics

Runs a best-effort series of checks on an installed system: disk
layout, swap, network, systemd unit status, journal errors and a
dry-build of the declarative configuration. Nothing is modified;
failing checks are reported and the remaining checks still run.

Usage:
  nixstrap-doctor [flags]

Flags:
`

func main() {
	defaults := doctor.DefaultOptions()

	user := flag.String("user", defaults.User, "User whose identity and groups are checked")
	configDir := flag.String("config-dir", "", "Expected cloned configuration directory")
	units := flag.String("units", strings.Join(defaults.Units, ","), "Comma-separated units to check")
	lines := flag.Int("journal-lines", defaults.JournalLines, "High-severity journal entries to show")
	pingHost := flag.String("ping", defaults.PingHost, "Connectivity probe target")
	verbose := flag.Bool("verbose", false, "Log every external command")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("nixstrap-doctor %s\n", version)
		os.Exit(0)
	}
	common.SetVerbose(*verbose)

	opts := doctor.Options{
		User:         *user,
		ConfigDir:    *configDir,
		JournalLines: *lines,
		PingHost:     *pingHost,
	}
	if *configDir == "" {
		opts.ConfigDir = "/home/" + *user + "/dotfiles"
	}
	for _, u := range strings.Split(*units, ",") {
		if u = strings.TrimSpace(u); u != "" {
			opts.Units = append(opts.Units, u)
		}
	}

	if doctor.Run(opts) > 0 {
		os.Exit(1)
	}
}
