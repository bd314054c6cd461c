// Package entities holds the core release-management domain types.
package entities

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is an immutable, v-prefixed semantic version. A Version is a
// release candidate iff it carries nonempty prerelease or build metadata.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a version string under strict semver grammar. A single
// leading "v" is accepted and implied on output. Returns InvalidVersionError
// when the input does not parse.
func ParseVersion(input string) (Version, error) {
	trimmed := strings.TrimPrefix(input, "v")

	parsed, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return Version{}, &InvalidVersionError{Input: input, Err: err}
	}

	return Version{v: parsed}, nil
}

// MustParseVersion is ParseVersion for known-good literals; it panics on error.
func MustParseVersion(input string) Version {
	v, err := ParseVersion(input)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version with its canonical leading "v".
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return "v" + v.v.String()
}

// IsZero reports whether the Version is the uninitialized zero value.
func (v Version) IsZero() bool { return v.v == nil }

// IsReleaseCandidate reports whether the version carries prerelease or build
// metadata.
func (v Version) IsReleaseCandidate() bool {
	return v.v.Prerelease() != "" || v.v.Metadata() != ""
}

// Finalized returns the version with prerelease and build metadata stripped.
func (v Version) Finalized() Version {
	final, _ := v.v.SetPrerelease("")
	final, _ = final.SetMetadata("")
	return Version{v: &final}
}

// Equal reports exact equality including prerelease and metadata.
func (v Version) Equal(other Version) bool {
	return v.v.Equal(other.v) && v.v.Metadata() == other.v.Metadata()
}

// Compare orders versions per semver precedence rules.
func (v Version) Compare(other Version) int {
	return v.v.Compare(other.v)
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.v.Major() }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.v.Minor() }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.v.Patch() }

// Prerelease returns the prerelease identifiers, empty for final versions.
func (v Version) Prerelease() string { return v.v.Prerelease() }

// Metadata returns the build metadata, empty when absent.
func (v Version) Metadata() string { return v.v.Metadata() }

// IncPatch, IncMinor and IncMajor bump the respective component per semver
// rules: lower components reset, and an existing prerelease is dropped
// without bumping (a prerelease precedes its own final version).

// IncPatch returns the next patch version.
func (v Version) IncPatch() Version {
	next := v.v.IncPatch()
	return Version{v: &next}
}

// IncMinor returns the next minor version.
func (v Version) IncMinor() Version {
	next := v.v.IncMinor()
	return Version{v: &next}
}

// IncMajor returns the next major version.
func (v Version) IncMajor() Version {
	next := v.v.IncMajor()
	return Version{v: &next}
}

// SetPrerelease returns a copy with the given prerelease identifiers.
func (v Version) SetPrerelease(pre string) (Version, error) {
	next, err := v.v.SetPrerelease(pre)
	if err != nil {
		return Version{}, &InvalidVersionError{Input: pre, Err: err}
	}
	return Version{v: &next}, nil
}
