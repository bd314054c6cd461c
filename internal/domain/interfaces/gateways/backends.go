// Package gateways defines the contracts for the three release backends.
//
// All three backends expose the same capability set — locate, copy/promote,
// delete — over different remote systems. Every operation is synchronous,
// individually idempotent and a single blocking network round trip; callers
// that need resilience re-run the whole command.
//
// Absence is always reported as entities.NotFoundError and any other remote
// failure as entities.CommandError; adapters never swallow errors and never
// conflate the two.
package gateways

import "context"

// Object is one stored item under a release's key prefix.
type Object struct {
	Key  string
	Size int64
}

// ArtifactStore is the object-storage backend. A release version maps to the
// key prefix "{version}/" inside one bucket.
type ArtifactStore interface {
	// Bucket returns the bucket name, for progress and error reporting.
	Bucket() string

	// Locate lists the objects under the version's prefix. A structurally
	// absent bucket and an empty listing both return NotFoundError; an empty
	// listing is never reported as success with no objects.
	Locate(ctx context.Context, version string) ([]Object, error)

	// Copy duplicates every object under the source version's prefix to the
	// destination prefix within the same bucket. The source is not touched.
	Copy(ctx context.Context, version, to string) error

	// Sync copies like Copy and then deletes any object under toPrefix with
	// no corresponding source object, so the destination exactly mirrors the
	// source afterwards.
	Sync(ctx context.Context, version, toPrefix string) error

	// Delete removes every object under the version's prefix. Deleting an
	// absent version reports NotFoundError, not success.
	Delete(ctx context.Context, version string) error
}

// TagRegistry is the source-control tag backend. A release version maps to
// the ref "tags/{version}" in one repository.
type TagRegistry interface {
	// Repo returns the "owner/name" repository identifier.
	Repo() string

	// ListTags returns every tag name in the repository.
	ListTags(ctx context.Context) ([]string, error)

	// CheckTag reports nil when the tag exists, NotFoundError when it does
	// not, CommandError otherwise.
	CheckTag(ctx context.Context, tag string) error

	// DeleteTag deletes the tag's ref. NotFoundError when the ref is absent.
	DeleteTag(ctx context.Context, tag string) error
}

// ReleasePublisher creates source-control releases from existing tags.
type ReleasePublisher interface {
	// CreateRelease publishes a release named releaseName from tagName,
	// generating release notes against the most recent prior release.
	CreateRelease(ctx context.Context, tagName, releaseName string, prerelease bool) error
}

// ImageRegistry is the container-image backend for one logical repository.
// A release version expands to one tag per supported architecture
// ("{version}-{arch}"), and a version-level operation is complete only once
// every architecture variant has been processed.
type ImageRegistry interface {
	// Repo returns the image repository name.
	Repo() string

	// Check reports nil when the version's image exists, NotFoundError when
	// it does not, CommandError otherwise.
	Check(ctx context.Context, version string) error

	// Retag republishes the manifest under every source architecture tag to
	// the destination version's tags. Re-publishing an identical manifest
	// under an existing destination tag is a no-op, so retagging is
	// idempotent.
	Retag(ctx context.Context, from, to string) error

	// Delete removes every architecture tag of the version. NotFoundError
	// when none of the tags exist.
	Delete(ctx context.Context, version string) error
}
