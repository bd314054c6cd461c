package orchestrators

import (
	"context"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces/gateways"
	"github.com/NillionNetwork/nilvm/internal/domain/services"
)

// backendProbe is one registered backend presence check.
type backendProbe struct {
	name  string
	probe func(ctx context.Context, version string) error
}

// StatusChecker classifies a release's presence across every backend. It
// never returns an error itself: backend failures are captured in the
// per-backend result so a listing can render partial state.
type StatusChecker struct {
	primaryTags gateways.TagRegistry
	probes      []backendProbe
}

// NewStatusChecker registers the backends in stable reporting order: object
// storage, the tag registries, then the image registry.
func NewStatusChecker(
	store gateways.ArtifactStore,
	primaryTags, secondaryTags gateways.TagRegistry,
	nodeImages gateways.ImageRegistry,
) *StatusChecker {
	return &StatusChecker{
		primaryTags: primaryTags,
		probes: []backendProbe{
			{
				name: "S3",
				probe: func(ctx context.Context, version string) error {
					_, err := store.Locate(ctx, version)
					return err
				},
			},
			{
				name:  "GITHUB (" + repoShortName(primaryTags.Repo()) + ")",
				probe: primaryTags.CheckTag,
			},
			{
				name:  "GITHUB (" + repoShortName(secondaryTags.Repo()) + ")",
				probe: secondaryTags.CheckTag,
			},
			{
				name:  "ECR",
				probe: nodeImages.Check,
			},
		},
	}
}

// BackendNames returns the registered backend names in reporting order.
func (c *StatusChecker) BackendNames() []string {
	names := make([]string, len(c.probes))
	for i, p := range c.probes {
		names[i] = p.name
	}
	return names
}

// Check probes every backend for the version, one tri-state result per
// backend in registration order.
func (c *StatusChecker) Check(ctx context.Context, version string) []entities.CheckResult {
	results := make([]entities.CheckResult, 0, len(c.probes))

	for _, p := range c.probes {
		result := entities.CheckResult{Backend: p.name, Status: entities.StatusFound}
		if err := p.probe(ctx, version); err != nil {
			if entities.IsNotFound(err) {
				result.Status = entities.StatusNotFound
			} else {
				result.Status = entities.StatusError
				result.Err = err
			}
		}
		results = append(results, result)
	}

	return results
}

// ListReleases gathers all known versions from the primary tag registry,
// narrows them by kind, and checks each across every backend.
func (c *StatusChecker) ListReleases(ctx context.Context, kind entities.ReleaseKind) ([]entities.Release, error) {
	tags, err := c.primaryTags.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	releases := make([]entities.Release, 0, len(tags))
	for _, tag := range services.SortTags(tags) {
		if !kind.Matches(tag) {
			continue
		}
		releases = append(releases, entities.Release{
			Tag:     tag,
			Results: c.Check(ctx, tag),
		})
	}

	return releases, nil
}

func repoShortName(repo string) string {
	for i := len(repo) - 1; i >= 0; i-- {
		if repo[i] == '/' {
			return repo[i+1:]
		}
	}
	return repo
}
