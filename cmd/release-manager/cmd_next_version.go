package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/NillionNetwork/nilvm/internal/domain/services"
)

func runGetReleaseNextVersion(_ context.Context, args []string) {
	fs := flag.NewFlagSet("get-release-next-version", flag.ExitOnError)
	baseVersion := fs.String("release-candidate-base-version", "",
		"Base version from which the next version should be derived")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: release-manager get-release-next-version <bump_type> <latest_version> [options]

Compute the next release version. bump_type is one of patch, minor, major,
prerelease or promote. When a release-candidate base version is given and its
finalized form differs from the latest version's, the bump starts from the
base version, so a new candidate series gets its own prerelease counter.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  release-manager get-release-next-version patch v1.2.3
  release-manager get-release-next-version promote v0.8.0-rc.39
  release-manager get-release-next-version prerelease v0.8.0-rc.39 --release-candidate-base-version v0.9.0-rc.0
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Error: bump type and latest version are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	bump, err := services.ParseBumpKind(fs.Arg(0))
	if err != nil {
		fatal(err)
	}

	next, err := services.NextVersion(bump, fs.Arg(1), *baseVersion)
	if err != nil {
		fatal(err)
	}

	fmt.Println(next)
}
