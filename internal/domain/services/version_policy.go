// Package services holds pure release-domain logic with no remote dependencies.
package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
)

// BumpKind selects how the next release version is derived.
type BumpKind string

// Supported bump kinds.
const (
	BumpPatch      BumpKind = "patch"
	BumpMinor      BumpKind = "minor"
	BumpMajor      BumpKind = "major"
	BumpPrerelease BumpKind = "prerelease"
	BumpPromote    BumpKind = "promote"
)

// ParseBumpKind validates a bump kind from the CLI.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(s) {
	case BumpPatch, BumpMinor, BumpMajor, BumpPrerelease, BumpPromote:
		return BumpKind(s), nil
	default:
		return "", entities.NewInvalidBumpError(
			"unknown bump type %q (expected patch, minor, major, prerelease or promote)", s)
	}
}

// NextVersion computes the next release version for a bump kind.
//
// When baseVersion is nonempty and its finalized form differs from the
// finalized form of latestVersion, the base version supersedes the latest as
// the bump origin. That lets a new minor or major release-candidate series
// start its own prerelease counter instead of continuing the prior series's:
// bumping prerelease from latest v0.8.0-rc.39 with base v0.9.0-rc.0 yields
// v0.9.0-rc.1.
//
// A prerelease already names the version it precedes, so the component bumps
// finalize it when the lower components are zero instead of skipping past it:
// patch always finalizes, minor finalizes when patch is zero, major when minor
// and patch are both zero.
//
// "promote" is valid only for release-candidate versions and strips their
// prerelease and build metadata; promoting an already-finalized version is a
// usage error.
func NextVersion(kind BumpKind, latestVersion, baseVersion string) (entities.Version, error) {
	version, err := entities.ParseVersion(latestVersion)
	if err != nil {
		return entities.Version{}, err
	}

	if baseVersion != "" {
		base, err := entities.ParseVersion(baseVersion)
		if err != nil {
			return entities.Version{}, err
		}
		if !version.Finalized().Equal(base.Finalized()) {
			version = base
		}
	}

	switch kind {
	case BumpPromote:
		if !version.IsReleaseCandidate() {
			return entities.Version{}, entities.NewInvalidBumpError(
				"bump type 'promote' cannot be used with non-release candidate version '%s'", latestVersion)
		}
		return version.Finalized(), nil
	case BumpPatch:
		return version.IncPatch(), nil
	case BumpMinor:
		// A candidate whose patch is zero already names the next minor
		// release; bumping finalizes it rather than skipping a version.
		if version.Prerelease() != "" && version.Patch() == 0 {
			return version.Finalized(), nil
		}
		return version.IncMinor(), nil
	case BumpMajor:
		if version.Prerelease() != "" && version.Minor() == 0 && version.Patch() == 0 {
			return version.Finalized(), nil
		}
		return version.IncMajor(), nil
	case BumpPrerelease:
		return bumpPrerelease(version)
	default:
		return entities.Version{}, entities.NewInvalidBumpError("unknown bump type %q", string(kind))
	}
}

// bumpPrerelease increments the trailing numeric prerelease identifier,
// appending ".0" first when none exists. A finalized version starts a fresh
// candidate series on the next patch version.
func bumpPrerelease(version entities.Version) (entities.Version, error) {
	pre := version.Prerelease()
	if pre == "" {
		return version.IncPatch().SetPrerelease("rc.1")
	}

	parts := strings.Split(pre, ".")
	last := parts[len(parts)-1]
	if n, err := strconv.Atoi(last); err == nil {
		parts[len(parts)-1] = fmt.Sprintf("%d", n+1)
	} else {
		parts = append(parts, "0")
	}

	return version.SetPrerelease(strings.Join(parts, "."))
}
