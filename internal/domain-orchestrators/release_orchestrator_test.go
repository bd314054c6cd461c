package orchestrators

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
)

type fixture struct {
	publicStore  *fakeStore
	privateStore *fakeStore
	primary      *fakeTags
	secondary    *fakeTags
	node         *fakeImages
	test         *fakeImages
	out          *bytes.Buffer
	orch         *ReleaseOrchestrator
}

// newFixture seeds every backend with a full v0.8.0-rc.39 release.
func newFixture() *fixture {
	f := &fixture{
		publicStore: newFakeStore("nillion-releases", map[string]string{
			"v0.8.0-rc.39/sdk.tar.gz":  "sdk-bytes",
			"v0.8.0-rc.39/CHECKSUMS":   "checksums",
			"other/unrelated-file.txt": "noise",
		}),
		privateStore: newFakeStore("nillion-private-releases", map[string]string{
			"v0.8.0-rc.39/node.tar.gz": "node-bytes",
		}),
		primary:   newFakeTags("NillionNetwork/nillion", "v0.8.0-rc.39"),
		secondary: newFakeTags("NillionNetwork/devops", "v0.8.0-rc.39"),
		node:      newFakeImages("nillion-node", []string{"amd64", "arm64"}, "v0.8.0-rc.39"),
		test:      newFakeImages("nillion-functional-tests", []string{"amd64"}, "v0.8.0-rc.39"),
		out:       &bytes.Buffer{},
	}

	f.orch = NewReleaseOrchestrator(
		f.publicStore, f.privateStore, f.primary, f.secondary, f.node, f.test,
		f.out, &interfaces.NoOpLogger{})
	return f
}

func TestDeleteReleaseRemovesEveryBackend(t *testing.T) {
	f := newFixture()

	if err := f.orch.DeleteRelease(context.Background(), "v0.8.0-rc.39", false); err != nil {
		t.Fatalf("DeleteRelease failed: %v", err)
	}

	if _, err := f.publicStore.Locate(context.Background(), "v0.8.0-rc.39"); !entities.IsNotFound(err) {
		t.Error("public bucket still holds the release")
	}
	if _, err := f.privateStore.Locate(context.Background(), "v0.8.0-rc.39"); !entities.IsNotFound(err) {
		t.Error("private bucket still holds the release")
	}
	if f.primary.tags["v0.8.0-rc.39"] || f.secondary.tags["v0.8.0-rc.39"] {
		t.Error("a GitHub tag survived the delete")
	}
	if len(f.node.tags) != 0 || len(f.test.tags) != 0 {
		t.Errorf("image tags survived the delete: %v %v", f.node.tags, f.test.tags)
	}
	if want := "Release 'v0.8.0-rc.39' has been deleted."; !strings.Contains(f.out.String(), want) {
		t.Errorf("output missing %q:\n%s", want, f.out.String())
	}
	// Untouched keys survive.
	if _, ok := f.publicStore.objects["other/unrelated-file.txt"]; !ok {
		t.Error("delete removed an object outside the release prefix")
	}
}

func TestDeleteReleaseStrictAbortsOnFirstFailure(t *testing.T) {
	f := newFixture()
	// Empty the public bucket so the very first step fails.
	f.publicStore.objects = map[string]string{}

	err := f.orch.DeleteRelease(context.Background(), "v0.8.0-rc.39", false)
	if err == nil {
		t.Fatal("DeleteRelease unexpectedly succeeded")
	}
	if !entities.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	if len(f.privateStore.calls) != 0 {
		t.Errorf("private bucket was touched after an aborting failure: %v", f.privateStore.calls)
	}
	if len(f.primary.calls) != 0 || len(f.node.calls) != 0 {
		t.Error("later backends were touched after an aborting failure")
	}
	if f.primary.tags["v0.8.0-rc.39"] != true {
		t.Error("tag deleted despite abort")
	}
}

func TestDeleteReleaseForceRunsEveryStep(t *testing.T) {
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	f := newFixture()
	f.publicStore.objects = map[string]string{}
	f.secondary.tags = map[string]bool{}

	if err := f.orch.DeleteRelease(context.Background(), "v0.8.0-rc.39", true); err != nil {
		t.Fatalf("forced DeleteRelease failed: %v", err)
	}

	// Every remaining backend was still processed.
	if _, err := f.privateStore.Locate(context.Background(), "v0.8.0-rc.39"); !entities.IsNotFound(err) {
		t.Error("private bucket still holds the release")
	}
	if f.primary.tags["v0.8.0-rc.39"] {
		t.Error("primary tag survived forced delete")
	}
	if len(f.node.tags) != 0 || len(f.test.tags) != 0 {
		t.Error("image tags survived forced delete")
	}

	output := f.out.String()
	if !strings.Contains(output, "❌") {
		t.Errorf("forced failures were not recorded in output:\n%s", output)
	}
	if !strings.Contains(output, "Release 'v0.8.0-rc.39' has been deleted.") {
		t.Errorf("missing final summary line:\n%s", output)
	}
}

func TestPromoteReleaseCopiesAndPublishes(t *testing.T) {
	f := newFixture()

	to, err := f.orch.PromoteRelease(context.Background(), "v0.8.0-rc.39", "v0.8.0")
	if err != nil {
		t.Fatalf("PromoteRelease failed: %v", err)
	}
	if to != "v0.8.0" {
		t.Errorf("resolved version = %q, want v0.8.0", to)
	}

	for _, key := range []string{
		"v0.8.0/node.tar.gz",
	} {
		if _, ok := f.privateStore.objects[key]; !ok {
			t.Errorf("private bucket missing %q", key)
		}
	}
	for _, key := range []string{
		"v0.8.0/sdk.tar.gz",
		"public/sdk/v0.8.0/sdk.tar.gz",
		"public/sdk/latest/sdk.tar.gz",
	} {
		if _, ok := f.publicStore.objects[key]; !ok {
			t.Errorf("public bucket missing %q", key)
		}
	}

	// Promotion is additive: the source version remains.
	if _, ok := f.publicStore.objects["v0.8.0-rc.39/sdk.tar.gz"]; !ok {
		t.Error("promotion deleted the source artifact")
	}

	// Image tags exist for every architecture of each repo.
	for _, tag := range []string{"v0.8.0-amd64", "v0.8.0-arm64"} {
		if _, ok := f.node.tags[tag]; !ok {
			t.Errorf("node image missing tag %q", tag)
		}
	}
	if _, ok := f.test.tags["v0.8.0-amd64"]; !ok {
		t.Error("functional-test image missing tag v0.8.0-amd64")
	}
}

func TestPromoteReleaseComputesTargetWhenUnset(t *testing.T) {
	f := newFixture()

	to, err := f.orch.PromoteRelease(context.Background(), "v0.8.0-rc.39", "")
	if err != nil {
		t.Fatalf("PromoteRelease failed: %v", err)
	}
	if to != "v0.8.0" {
		t.Errorf("auto-computed version = %q, want v0.8.0", to)
	}
}

func TestPromoteReleaseAbortsOnFailure(t *testing.T) {
	f := newFixture()
	// Private bucket copy is the first step; make it fail.
	f.privateStore.objects = map[string]string{}

	_, err := f.orch.PromoteRelease(context.Background(), "v0.8.0-rc.39", "v0.8.0")
	if err == nil {
		t.Fatal("PromoteRelease unexpectedly succeeded")
	}

	if len(f.publicStore.calls) != 0 {
		t.Errorf("public bucket was touched after an aborting failure: %v", f.publicStore.calls)
	}
	if len(f.node.calls) != 0 || len(f.test.calls) != 0 {
		t.Error("images were touched after an aborting failure")
	}
}

func TestPromoteReleaseIsIdempotent(t *testing.T) {
	f := newFixture()

	if _, err := f.orch.PromoteRelease(context.Background(), "v0.8.0-rc.39", "v0.8.0"); err != nil {
		t.Fatalf("first PromoteRelease failed: %v", err)
	}

	publicAfterFirst := snapshot(f.publicStore.objects)
	privateAfterFirst := snapshot(f.privateStore.objects)
	nodeAfterFirst := snapshot(f.node.tags)

	if _, err := f.orch.PromoteRelease(context.Background(), "v0.8.0-rc.39", "v0.8.0"); err != nil {
		t.Fatalf("second PromoteRelease failed: %v", err)
	}

	if !reflect.DeepEqual(publicAfterFirst, snapshot(f.publicStore.objects)) {
		t.Error("public bucket state changed on re-run")
	}
	if !reflect.DeepEqual(privateAfterFirst, snapshot(f.privateStore.objects)) {
		t.Error("private bucket state changed on re-run")
	}
	if !reflect.DeepEqual(nodeAfterFirst, snapshot(f.node.tags)) {
		t.Error("node image tags changed on re-run")
	}
}

func TestPromoteSyncRemovesStaleLatest(t *testing.T) {
	f := newFixture()
	// A leftover from a previously promoted release.
	f.publicStore.objects["public/sdk/latest/old-sdk.tar.gz"] = "stale"

	if _, err := f.orch.PromoteRelease(context.Background(), "v0.8.0-rc.39", "v0.8.0"); err != nil {
		t.Fatalf("PromoteRelease failed: %v", err)
	}

	if _, ok := f.publicStore.objects["public/sdk/latest/old-sdk.tar.gz"]; ok {
		t.Error("latest alias still holds an object the promoted release does not have")
	}
	if _, ok := f.publicStore.objects["public/sdk/latest/sdk.tar.gz"]; !ok {
		t.Error("latest alias is missing the promoted artifact")
	}
}

func snapshot(m map[string]string) map[string]string {
	copied := make(map[string]string, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
