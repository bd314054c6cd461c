package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runDeleteRelease(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("delete-release", flag.ExitOnError)
	var (
		force      = fs.Bool("force", false, "Ignore errors from intermediate deletion steps")
		configPath = fs.String("config", "", "Path to release-manager config file")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: release-manager delete-release <release_version> [options]

Delete a release from the S3 release buckets, the GitHub repo tags and the
ECR image repositories. Without --force the first failing step aborts the
remaining ones; with --force every step runs and failures are only logged.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  release-manager delete-release v0.8.0-rc.12
  release-manager delete-release v0.8.0-rc.12 --force
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: release version is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	version := fs.Arg(0)

	b, err := newBackends(ctx, *configPath, *verbose)
	if err != nil {
		fatal(err)
	}

	if err := b.orchestrator.DeleteRelease(ctx, version, *force); err != nil {
		fatal(err)
	}
}
