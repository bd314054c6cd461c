package entities

import "strings"

// CheckStatus is the tri-state outcome of probing one backend for a release.
// It is deliberately not a boolean: callers must handle all three states.
type CheckStatus int

// Probe outcomes.
const (
	StatusFound CheckStatus = iota
	StatusNotFound
	StatusError
)

// CheckResult is the outcome of probing one backend for one version.
type CheckResult struct {
	Backend string
	Status  CheckStatus
	Err     error
}

// Release pairs a tag with the backend check results collected for it at
// query time. It is derived for a single listing call and never persisted;
// the remote backends are the only source of truth.
type Release struct {
	Tag     string
	Results []CheckResult
}

// ReleaseKind names a tag naming convention used to narrow a release listing.
// The narrowing is display-side only, never a backend query parameter.
type ReleaseKind string

// Listing filters.
const (
	KindIncremental ReleaseKind = "incremental"
	KindNightly     ReleaseKind = "nightly"
	KindTestnet     ReleaseKind = "testnet"
	KindAll         ReleaseKind = "all"
)

// ParseReleaseKind validates a filter name from the CLI.
func ParseReleaseKind(s string) (ReleaseKind, error) {
	switch ReleaseKind(s) {
	case KindIncremental, KindNightly, KindTestnet, KindAll:
		return ReleaseKind(s), nil
	default:
		return "", NewCommandError("unknown release filter %q (expected incremental, nightly, testnet or all)", s)
	}
}

// Matches reports whether a tag falls under this kind's naming convention.
// Incremental releases are plain semver tags (optionally with an rc suffix),
// nightly and testnet tags carry their kind in the tag name.
func (k ReleaseKind) Matches(tag string) bool {
	switch k {
	case KindNightly:
		return strings.Contains(tag, "-nightly")
	case KindTestnet:
		return strings.Contains(tag, "-testnet")
	case KindIncremental:
		if strings.Contains(tag, "-nightly") || strings.Contains(tag, "-testnet") {
			return false
		}
		_, err := ParseVersion(tag)
		return err == nil
	default:
		return true
	}
}
