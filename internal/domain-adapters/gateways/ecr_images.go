package gateways

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
)

// ECRAPI is the slice of the ECR client used by the image registry.
type ECRAPI interface {
	DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error)
	BatchGetImage(ctx context.Context, params *ecr.BatchGetImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchGetImageOutput, error)
	PutImage(ctx context.Context, params *ecr.PutImageInput, optFns ...func(*ecr.Options)) (*ecr.PutImageOutput, error)
	BatchDeleteImage(ctx context.Context, params *ecr.BatchDeleteImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error)
}

// ECRImageRegistry works with release images in one ECR repository. A release
// version expands to one "{version}-{arch}" tag per supported architecture,
// and image tags always carry the release's "v" prefix regardless of how the
// caller spelled the version.
type ECRImageRegistry struct {
	client ECRAPI
	repo   string
	arches []string
	log    interfaces.Logger
}

// NewECRImageRegistry creates an image registry for one repository and its
// supported architectures.
func NewECRImageRegistry(client ECRAPI, repo string, arches []string, log interfaces.Logger) *ECRImageRegistry {
	return &ECRImageRegistry{client: client, repo: repo, arches: arches, log: log}
}

// NewECRClient loads the ambient AWS credential context and builds an ECR
// client. A failure to load the context is a configuration error.
func NewECRClient(ctx context.Context) (*ecr.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, entities.NewConfigError("failed to load AWS configuration: %v", err)
	}
	return ecr.NewFromConfig(cfg), nil
}

// Repo returns the image repository name.
func (e *ECRImageRegistry) Repo() string { return e.repo }

// Check probes the repository for the version's first architecture tag.
func (e *ECRImageRegistry) Check(ctx context.Context, version string) error {
	tag := e.tagFor(version, e.arches[0])

	images, err := e.client.DescribeImages(ctx, &ecr.DescribeImagesInput{
		RepositoryName: aws.String(e.repo),
		ImageIds:       []ecrtypes.ImageIdentifier{{ImageTag: aws.String(tag)}},
	})
	if err != nil {
		var notFound *ecrtypes.ImageNotFoundException
		if errors.As(err, &notFound) {
			return entities.NewNotFoundError("image with tag '%s' not found in repo '%s'", tag, e.repo)
		}
		return entities.WrapCommandError(err,
			"an error occurred describing images from the ECR API in repo '%s' with image tag '%s'", e.repo, tag)
	}

	if images == nil || len(images.ImageDetails) == 0 {
		return entities.NewCommandError(
			"images with no image details returned from ECR API for repo '%s' and image tag '%s'", e.repo, tag)
	}

	return nil
}

// Retag republishes each architecture's manifest under the destination
// version's tag. ECR accepts re-putting an identical manifest under an
// existing tag as a duplicate, so re-running a promotion is a no-op; a
// conflicting manifest under the same tag is a fatal CommandError.
func (e *ECRImageRegistry) Retag(ctx context.Context, from, to string) error {
	for _, arch := range e.arches {
		if err := e.retagArch(ctx, from, to, arch); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes every architecture tag of the version.
func (e *ECRImageRegistry) Delete(ctx context.Context, version string) error {
	ids := make([]ecrtypes.ImageIdentifier, 0, len(e.arches))
	for _, arch := range e.arches {
		ids = append(ids, ecrtypes.ImageIdentifier{ImageTag: aws.String(e.tagFor(version, arch))})
	}

	response, err := e.client.BatchDeleteImage(ctx, &ecr.BatchDeleteImageInput{
		RepositoryName: aws.String(e.repo),
		ImageIds:       ids,
	})
	if err != nil {
		return entities.WrapCommandError(err,
			"an error occurred batch deleting images from the ECR API in repo '%s' for version '%s'", e.repo, version)
	}

	return e.classifyFailures(response.Failures, version)
}

func (e *ECRImageRegistry) retagArch(ctx context.Context, from, to, arch string) error {
	fromTag := e.tagFor(from, arch)
	toTag := e.tagFor(to, arch)

	response, err := e.client.BatchGetImage(ctx, &ecr.BatchGetImageInput{
		RepositoryName: aws.String(e.repo),
		ImageIds:       []ecrtypes.ImageIdentifier{{ImageTag: aws.String(fromTag)}},
	})
	if err != nil {
		return entities.WrapCommandError(err,
			"an error occurred batch getting images from the ECR API in repo '%s' with image tag '%s'", e.repo, fromTag)
	}

	if err := e.classifyFailures(response.Failures, from); err != nil {
		return err
	}

	if len(response.Images) == 0 {
		return entities.NewCommandError(
			"empty images returned from ECR API for repo '%s' and image tag '%s'", e.repo, fromTag)
	}
	if len(response.Images) > 1 {
		return entities.NewCommandError(
			"multiple images returned from batch get for ECR repo '%s' and image tag '%s'", e.repo, fromTag)
	}

	image := response.Images[0]
	if image.ImageManifest == nil {
		return entities.NewCommandError(
			"image with no manifest returned from ECR API for repo '%s' and image tag '%s'", e.repo, fromTag)
	}

	input := &ecr.PutImageInput{
		RepositoryName: aws.String(e.repo),
		ImageManifest:  image.ImageManifest,
		ImageTag:       aws.String(toTag),
	}
	if image.ImageId != nil {
		input.ImageDigest = image.ImageId.ImageDigest
	}

	if _, err := e.client.PutImage(ctx, input); err != nil {
		var exists *ecrtypes.ImageAlreadyExistsException
		if errors.As(err, &exists) {
			// Identical manifest already tagged: promotion already happened.
			e.log.Debug("image tag already present",
				interfaces.F("repo", e.repo), interfaces.F("tag", toTag))
			return nil
		}
		return entities.WrapCommandError(err,
			"an error occurred putting an image via the ECR API in repo '%s' with image tag '%s'", e.repo, toTag)
	}

	e.log.Debug("retagged image",
		interfaces.F("repo", e.repo), interfaces.F("from", fromTag), interfaces.F("to", toTag))
	return nil
}

// classifyFailures maps ECR batch failures onto the error taxonomy: a pure
// set of ImageNotFound failures is NotFoundError, anything else CommandError.
func (e *ECRImageRegistry) classifyFailures(failures []ecrtypes.ImageFailure, version string) error {
	if len(failures) == 0 {
		return nil
	}

	var missing []string
	for _, failure := range failures {
		if failure.FailureCode == ecrtypes.ImageFailureCodeImageNotFound {
			if failure.ImageId != nil && failure.ImageId.ImageTag != nil {
				missing = append(missing, *failure.ImageId.ImageTag)
			}
		}
	}

	if len(missing) == len(failures) && len(missing) > 0 {
		return entities.NewNotFoundError(
			"image not found in repo '%s' for tags: %s", e.repo, strings.Join(missing, ", "))
	}

	return entities.NewCommandError(
		"an unexpected error was present in the response from the ECR API in repo '%s' for version '%s': %v",
		e.repo, version, failures)
}

func (e *ECRImageRegistry) tagFor(version, arch string) string {
	tag := version + "-" + arch
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	return tag
}
