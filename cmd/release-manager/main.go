package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "create-github-release":
		runCreateGitHubRelease(ctx, os.Args[2:])
	case "delete-release":
		runDeleteRelease(ctx, os.Args[2:])
	case "get-release-next-version":
		runGetReleaseNextVersion(ctx, os.Args[2:])
	case "get-releases":
		runGetReleases(ctx, os.Args[2:])
	case "promote-release":
		runPromoteRelease(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`release-manager - A tool for release management

Usage:
  release-manager <command> [options]

Commands:
  create-github-release     Create a GitHub release from an existing tag
  delete-release            Delete a release from S3, GitHub and ECR
  get-release-next-version  Compute the next version for a release
  get-releases              List releases and their per-backend status
  promote-release           Promote a release to a new version

Use "release-manager <command> --help" for more information about a command.`)
}
