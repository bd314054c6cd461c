package services

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
)

// SortTags orders tags semver-aware: parseable versions first in precedence
// order, then the remaining tags lexically. Non-semver tags are kept rather
// than dropped so the listing never hides a tag.
func SortTags(tags []string) []string {
	type parsed struct {
		tag     string
		version entities.Version
	}

	var versions []parsed
	var rest []string

	for _, tag := range tags {
		if v, err := entities.ParseVersion(tag); err == nil {
			versions = append(versions, parsed{tag: tag, version: v})
		} else {
			rest = append(rest, tag)
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].version.Compare(versions[j].version) < 0
	})
	sort.Strings(rest)

	sorted := make([]string, 0, len(tags))
	for _, p := range versions {
		sorted = append(sorted, p.tag)
	}
	return append(sorted, rest...)
}

// RenderReleaseTable renders one row per release with one status cell per
// backend.
func RenderReleaseTable(backends []string, releases []entities.Release) string {
	table := uitable.New()
	table.Wrap = true

	header := make([]interface{}, 0, len(backends)+1)
	header = append(header, "RELEASE")
	for _, backend := range backends {
		header = append(header, backend)
	}
	table.AddRow(header...)

	for _, release := range releases {
		row := make([]interface{}, 0, len(release.Results)+1)
		row = append(row, release.Tag)
		for _, result := range release.Results {
			row = append(row, renderCell(result))
		}
		table.AddRow(row...)
	}

	return table.String()
}

func renderCell(result entities.CheckResult) string {
	switch result.Status {
	case entities.StatusFound:
		return color.GreenString("✓")
	case entities.StatusNotFound:
		return color.RedString("x")
	default:
		return color.YellowString(fmt.Sprintf("? (Error: %v)", result.Err))
	}
}
