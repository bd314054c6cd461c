// Package orchestrators sequences multi-backend release operations.
package orchestrators

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces/gateways"
	"github.com/NillionNetwork/nilvm/internal/domain/services"
)

// step is one backend-scoped unit of a multi-backend operation. Each step
// targets exactly one backend and is individually idempotent.
type step struct {
	// name identifies the backend and operation in failure output.
	name string
	// success is the confirmation line printed when the step completes.
	success string
	run     func(ctx context.Context) error
}

// ReleaseOrchestrator runs delete and promote pipelines across the three
// release backends. Steps always run strictly in order; later steps may
// depend on the state earlier steps produced.
type ReleaseOrchestrator struct {
	publicStore   gateways.ArtifactStore
	privateStore  gateways.ArtifactStore
	primaryTags   gateways.TagRegistry
	secondaryTags gateways.TagRegistry
	nodeImages    gateways.ImageRegistry
	testImages    gateways.ImageRegistry
	out           io.Writer
	log           interfaces.Logger
}

// NewReleaseOrchestrator wires the orchestrator to its six backends. Progress
// lines are written to out.
func NewReleaseOrchestrator(
	publicStore, privateStore gateways.ArtifactStore,
	primaryTags, secondaryTags gateways.TagRegistry,
	nodeImages, testImages gateways.ImageRegistry,
	out io.Writer,
	log interfaces.Logger,
) *ReleaseOrchestrator {
	return &ReleaseOrchestrator{
		publicStore:   publicStore,
		privateStore:  privateStore,
		primaryTags:   primaryTags,
		secondaryTags: secondaryTags,
		nodeImages:    nodeImages,
		testImages:    testImages,
		out:           out,
		log:           log,
	}
}

// DeleteRelease removes a release from every backend, in order: public
// bucket, private bucket, primary repo tag, secondary repo tag, node image,
// functional-test image.
//
// In force mode each failure is printed and execution continues to the next
// step; the call still succeeds. Otherwise the first failure aborts the
// remaining steps and is returned.
func (o *ReleaseOrchestrator) DeleteRelease(ctx context.Context, version string, force bool) error {
	steps := []step{
		{
			name:    fmt.Sprintf("delete from S3 bucket '%s'", o.publicStore.Bucket()),
			success: fmt.Sprintf("Release has been deleted from S3 bucket '%s'", o.publicStore.Bucket()),
			run:     func(ctx context.Context) error { return o.publicStore.Delete(ctx, version) },
		},
		{
			name:    fmt.Sprintf("delete from S3 bucket '%s'", o.privateStore.Bucket()),
			success: fmt.Sprintf("Release has been deleted from S3 bucket '%s'", o.privateStore.Bucket()),
			run:     func(ctx context.Context) error { return o.privateStore.Delete(ctx, version) },
		},
		{
			name:    fmt.Sprintf("delete tag from GitHub repo '%s'", o.primaryTags.Repo()),
			success: fmt.Sprintf("Release tag has been deleted from GitHub repo '%s'", o.primaryTags.Repo()),
			run:     func(ctx context.Context) error { return o.primaryTags.DeleteTag(ctx, version) },
		},
		{
			name:    fmt.Sprintf("delete tag from GitHub repo '%s'", o.secondaryTags.Repo()),
			success: fmt.Sprintf("Release tag has been deleted from GitHub repo '%s'", o.secondaryTags.Repo()),
			run:     func(ctx context.Context) error { return o.secondaryTags.DeleteTag(ctx, version) },
		},
		{
			name:    fmt.Sprintf("delete Docker image from ECR repo '%s'", o.nodeImages.Repo()),
			success: fmt.Sprintf("Release node Docker image has been deleted from ECR repo '%s'", o.nodeImages.Repo()),
			run:     func(ctx context.Context) error { return o.nodeImages.Delete(ctx, version) },
		},
		{
			name:    fmt.Sprintf("delete Docker image from ECR repo '%s'", o.testImages.Repo()),
			success: fmt.Sprintf("Release Docker image has been deleted from ECR repo '%s'", o.testImages.Repo()),
			run:     func(ctx context.Context) error { return o.testImages.Delete(ctx, version) },
		},
	}

	if err := o.runSteps(ctx, steps, force); err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Release '%s' has been deleted.\n", version)
	return nil
}

// PromoteRelease copies a release's artifacts to a new version across every
// backend. When to is empty it is computed from from with the "promote" bump.
// Promotion has no force mode: a partially promoted release is worse than a
// hard stop, so any failure aborts immediately. Every step is overwrite-based
// and idempotent, making a re-run after a partial failure safe.
//
// The resolved destination version is returned.
func (o *ReleaseOrchestrator) PromoteRelease(ctx context.Context, from, to string) (string, error) {
	if to == "" {
		next, err := services.NextVersion(services.BumpPromote, from, "")
		if err != nil {
			return "", err
		}
		to = next.String()
	}

	steps := []step{
		{
			name: fmt.Sprintf("promote in S3 bucket '%s'", o.privateStore.Bucket()),
			success: fmt.Sprintf("Release %s has been promoted to %s in S3 bucket '%s'",
				from, to, o.privateStore.Bucket()),
			run: func(ctx context.Context) error { return o.privateStore.Copy(ctx, from, to) },
		},
		{
			name: fmt.Sprintf("promote in S3 bucket '%s'", o.publicStore.Bucket()),
			success: fmt.Sprintf("Release %s has been promoted to %s in S3 bucket '%s'",
				from, to, o.publicStore.Bucket()),
			run: func(ctx context.Context) error { return o.publicStore.Copy(ctx, from, to) },
		},
		{
			name: fmt.Sprintf("publish to '%s' in S3 bucket '%s'", sdkPath(to), o.publicStore.Bucket()),
			success: fmt.Sprintf("Release %s has been published to '%s' in S3 bucket '%s'",
				to, sdkPath(to), o.publicStore.Bucket()),
			run: func(ctx context.Context) error { return o.publicStore.Copy(ctx, from, sdkPath(to)) },
		},
		{
			name: fmt.Sprintf("publish to '%s' in S3 bucket '%s'", sdkLatestPath, o.publicStore.Bucket()),
			success: fmt.Sprintf("Release %s has been published to '%s' in S3 bucket '%s'",
				to, sdkLatestPath, o.publicStore.Bucket()),
			run: func(ctx context.Context) error { return o.publicStore.Sync(ctx, from, sdkLatestPath) },
		},
		{
			name:    fmt.Sprintf("promote Docker image in ECR repo '%s'", o.nodeImages.Repo()),
			success: fmt.Sprintf("Release node Docker image %s has been promoted to %s", from, to),
			run:     func(ctx context.Context) error { return o.nodeImages.Retag(ctx, from, to) },
		},
		{
			name:    fmt.Sprintf("promote Docker image in ECR repo '%s'", o.testImages.Repo()),
			success: fmt.Sprintf("Release functional-test Docker image %s has been promoted to %s", from, to),
			run:     func(ctx context.Context) error { return o.testImages.Retag(ctx, from, to) },
		},
	}

	if err := o.runSteps(ctx, steps, false); err != nil {
		return "", err
	}

	fmt.Fprintf(o.out, "Release %s has been promoted to %s.\n", from, to)
	return to, nil
}

// runSteps executes the pipeline strictly in order. In force mode failures
// are printed and accumulated instead of aborting; the accumulated failures
// are logged at the end but never escalated.
func (o *ReleaseOrchestrator) runSteps(ctx context.Context, steps []step, force bool) error {
	var failures *multierror.Error

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			if !force {
				return fmt.Errorf("failed to %s: %w", s.name, err)
			}

			failures = multierror.Append(failures, fmt.Errorf("%s: %w", s.name, err))
			fmt.Fprintf(o.out, "%s Error trying to %s: %v\n", color.RedString("❌"), s.name, err)
			continue
		}

		fmt.Fprintf(o.out, "%s %s\n", color.GreenString("✓"), s.success)
	}

	if failures != nil {
		o.log.Warn("operation completed with failures",
			interfaces.F("failures", failures.Len()), interfaces.F("errors", failures.Error()))
	}

	return nil
}

// Fixed public SDK publication paths in the public releases bucket. The
// latest alias always exactly mirrors the most recently promoted release.
const sdkLatestPath = "public/sdk/latest"

func sdkPath(version string) string {
	return "public/sdk/" + version
}
