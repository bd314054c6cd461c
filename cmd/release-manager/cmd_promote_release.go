package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runPromoteRelease(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("promote-release", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "Path to release-manager config file")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: release-manager promote-release <from_version> [to_version] [options]

Copy a release's artifacts to a new version in S3 and ECR, and publish the
public SDK paths. When to_version is omitted (or empty) it is computed from
from_version with the 'promote' bump. Promotion aborts on the first failure;
re-running after a partial failure is safe because every step overwrites.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  release-manager promote-release v0.8.0-rc.39 v0.8.0
  release-manager promote-release v0.8.0-rc.39
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fmt.Fprintf(os.Stderr, "Error: from version is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	fromVersion := fs.Arg(0)
	toVersion := ""
	if fs.NArg() == 2 {
		toVersion = fs.Arg(1)
	}

	b, err := newBackends(ctx, *configPath, *verbose)
	if err != nil {
		fatal(err)
	}

	if _, err := b.orchestrator.PromoteRelease(ctx, fromVersion, toVersion); err != nil {
		fatal(err)
	}
}
