package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
)

func runCreateGitHubRelease(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("create-github-release", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "Path to release-manager config file")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: release-manager create-github-release <tag_name> <release_name> [options]

Create a GitHub release from an existing tag. The release is marked as a
pre-release when the release name parses as a release-candidate version, and
release notes are generated against the most recent prior release.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  release-manager create-github-release v0.8.0 v0.8.0
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Error: tag name and release name are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	tagName := fs.Arg(0)
	releaseName := fs.Arg(1)

	version, err := entities.ParseVersion(releaseName)
	if err != nil {
		fatal(err)
	}
	prerelease := version.IsReleaseCandidate()

	b, err := newBackends(ctx, *configPath, *verbose)
	if err != nil {
		fatal(err)
	}

	kind := "release"
	if prerelease {
		kind = "pre-release"
	}
	fmt.Printf("Creating GitHub %s %s from tag %s\n", kind, releaseName, tagName)

	if err := b.primaryTags.CreateRelease(ctx, tagName, releaseName, prerelease); err != nil {
		fatal(err)
	}
}
