package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	adapters "github.com/NillionNetwork/nilvm/internal/domain-adapters/gateways"
	orchestrators "github.com/NillionNetwork/nilvm/internal/domain-orchestrators"
	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
	"github.com/NillionNetwork/nilvm/internal/external-adapters/yaml"
	"github.com/NillionNetwork/nilvm/internal/external-adapters/zaplog"
)

// backends bundles the fully wired remote adapters for one invocation.
// Nothing here is persisted between runs: the remote systems are the only
// source of truth.
type backends struct {
	orchestrator *orchestrators.ReleaseOrchestrator
	checker      *orchestrators.StatusChecker
	primaryTags  *adapters.GitHubTagRegistry
	log          interfaces.Logger
}

// newBackends checks the credential context and builds every adapter.
// Configuration problems (missing token, unusable AWS context, bad config
// file) are reported here, before any network call is attempted.
func newBackends(ctx context.Context, configPath string, verbose bool) (*backends, error) {
	log, err := zaplog.New(verbose)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	ghClient, err := adapters.NewGitHubClient(ctx, os.Getenv("GITHUB_TOKEN"))
	if err != nil {
		return nil, err
	}

	s3Client, err := adapters.NewS3Client(ctx)
	if err != nil {
		return nil, err
	}

	ecrClient, err := adapters.NewECRClient(ctx)
	if err != nil {
		return nil, err
	}

	publicStore := adapters.NewS3ArtifactStore(s3Client, cfg.PublicReleasesBucket, log)
	privateStore := adapters.NewS3ArtifactStore(s3Client, cfg.PrivateReleasesBucket, log)

	primaryTags, err := adapters.NewGitHubTagRegistry(ghClient, cfg.PrimaryRepo, log)
	if err != nil {
		return nil, err
	}
	secondaryTags, err := adapters.NewGitHubTagRegistry(ghClient, cfg.SecondaryRepo, log)
	if err != nil {
		return nil, err
	}

	nodeImages := adapters.NewECRImageRegistry(ecrClient, cfg.NodeImageRepo, cfg.NodeImageArches, log)
	testImages := adapters.NewECRImageRegistry(ecrClient, cfg.FunctionalTestImageRepo, cfg.FunctionalTestArches, log)

	return &backends{
		orchestrator: orchestrators.NewReleaseOrchestrator(
			publicStore, privateStore, primaryTags, secondaryTags, nodeImages, testImages, os.Stdout, log),
		checker:     orchestrators.NewStatusChecker(publicStore, primaryTags, secondaryTags, nodeImages),
		primaryTags: primaryTags,
		log:         log,
	}, nil
}

func loadConfig(configPath string) (entities.Config, error) {
	if configPath != "" {
		return yaml.LoadConfig(configPath)
	}
	return yaml.LoadDefaultConfig()
}

// fatal prints an error and exits non-zero. Config errors are prefixed
// distinctly so an operator can tell local misconfiguration from a backend
// failure.
func fatal(err error) {
	var cfgErr *entities.ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
