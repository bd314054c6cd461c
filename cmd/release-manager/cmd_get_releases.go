package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/services"
)

func runGetReleases(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("get-releases", flag.ExitOnError)
	var (
		filter     = fs.String("filter", "all", "Filter releases by type (incremental, nightly, testnet, all)")
		configPath = fs.String("config", "", "Path to release-manager config file")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: release-manager get-releases [options]

List every known release with its per-backend status: found, not found, or
the error the backend reported. Backend errors never abort the listing.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  release-manager get-releases
  release-manager get-releases --filter incremental
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	kind, err := entities.ParseReleaseKind(*filter)
	if err != nil {
		fatal(err)
	}

	b, err := newBackends(ctx, *configPath, *verbose)
	if err != nil {
		fatal(err)
	}

	releases, err := b.checker.ListReleases(ctx, kind)
	if err != nil {
		fatal(err)
	}

	fmt.Println(services.RenderReleaseTable(b.checker.BackendNames(), releases))
}
