package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
)

func TestSortTags(t *testing.T) {
	tags := []string{
		"zz-custom",
		"v0.10.0",
		"v0.2.0",
		"v0.2.0-rc.1",
		"nightly-build",
	}

	got := SortTags(tags)
	want := []string{"v0.2.0-rc.1", "v0.2.0", "v0.10.0", "nightly-build", "zz-custom"}

	if len(got) != len(want) {
		t.Fatalf("SortTags returned %d tags, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderReleaseTable(t *testing.T) {
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	backends := []string{"S3", "GITHUB (nillion)", "GITHUB (devops)", "ECR"}
	releases := []entities.Release{
		{
			Tag: "v1.0.0",
			Results: []entities.CheckResult{
				{Backend: "S3", Status: entities.StatusFound},
				{Backend: "GITHUB (nillion)", Status: entities.StatusFound},
				{Backend: "GITHUB (devops)", Status: entities.StatusNotFound},
				{Backend: "ECR", Status: entities.StatusError, Err: errors.New("rate limited")},
			},
		},
	}

	table := RenderReleaseTable(backends, releases)

	for _, want := range []string{"RELEASE", "S3", "GITHUB (nillion)", "v1.0.0", "✓", "x", "? (Error: rate limited)"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}

func TestRenderReleaseTableAllAbsent(t *testing.T) {
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	releases := []entities.Release{
		{
			Tag: "v9.9.9",
			Results: []entities.CheckResult{
				{Backend: "S3", Status: entities.StatusNotFound},
				{Backend: "ECR", Status: entities.StatusNotFound},
			},
		},
	}

	table := RenderReleaseTable([]string{"S3", "ECR"}, releases)
	if strings.Contains(table, "✓") || strings.Contains(table, "Error") {
		t.Errorf("all-absent release should render only not-found cells:\n%s", table)
	}
}
