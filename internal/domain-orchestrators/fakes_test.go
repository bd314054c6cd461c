package orchestrators

import (
	"context"
	"sort"
	"strings"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces/gateways"
)

// fakeStore is an in-memory ArtifactStore with real copy/sync/delete
// semantics, so idempotence can be asserted on final state.
type fakeStore struct {
	bucket  string
	objects map[string]string // key -> content
	calls   []string
	failAll error
}

func newFakeStore(bucket string, objects map[string]string) *fakeStore {
	if objects == nil {
		objects = map[string]string{}
	}
	return &fakeStore{bucket: bucket, objects: objects}
}

func (f *fakeStore) Bucket() string { return f.bucket }

func (f *fakeStore) Locate(_ context.Context, version string) ([]gateways.Object, error) {
	f.calls = append(f.calls, "locate "+version)
	if f.failAll != nil {
		return nil, f.failAll
	}

	var objects []gateways.Object
	for key := range f.objects {
		if strings.HasPrefix(key, version+"/") {
			objects = append(objects, gateways.Object{Key: key})
		}
	}
	if len(objects) == 0 {
		return nil, entities.NewNotFoundError(
			"release '%s' not found or has no files in bucket '%s'", version, f.bucket)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (f *fakeStore) Copy(ctx context.Context, version, to string) error {
	f.calls = append(f.calls, "copy "+version+" "+to)
	objects, err := f.Locate(ctx, version)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		f.objects[strings.Replace(obj.Key, version, to, 1)] = f.objects[obj.Key]
	}
	return nil
}

func (f *fakeStore) Sync(ctx context.Context, version, toPrefix string) error {
	f.calls = append(f.calls, "sync "+version+" "+toPrefix)
	sourceObjects, err := f.Locate(ctx, version)
	if err != nil {
		return err
	}

	wanted := map[string]struct{}{}
	for _, obj := range sourceObjects {
		wanted[strings.Replace(obj.Key, version, toPrefix, 1)] = struct{}{}
	}
	if err := f.Copy(ctx, version, toPrefix); err != nil {
		return err
	}
	for key := range f.objects {
		if strings.HasPrefix(key, toPrefix+"/") {
			if _, ok := wanted[key]; !ok {
				delete(f.objects, key)
			}
		}
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, version string) error {
	f.calls = append(f.calls, "delete "+version)
	objects, err := f.Locate(ctx, version)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		delete(f.objects, obj.Key)
	}
	return nil
}

type fakeTags struct {
	repo     string
	tags     map[string]bool
	calls    []string
	checkErr error
	listErr  error
}

func newFakeTags(repo string, tags ...string) *fakeTags {
	set := map[string]bool{}
	for _, tag := range tags {
		set[tag] = true
	}
	return &fakeTags{repo: repo, tags: set}
}

func (f *fakeTags) Repo() string { return f.repo }

func (f *fakeTags) ListTags(context.Context) ([]string, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	var names []string
	for tag := range f.tags {
		names = append(names, tag)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeTags) CheckTag(_ context.Context, tag string) error {
	f.calls = append(f.calls, "check "+tag)
	if f.checkErr != nil {
		return f.checkErr
	}
	if !f.tags[tag] {
		return entities.NewNotFoundError("ref for tag '%s' not found in repo '%s'", tag, f.repo)
	}
	return nil
}

func (f *fakeTags) DeleteTag(ctx context.Context, tag string) error {
	f.calls = append(f.calls, "delete "+tag)
	if err := f.CheckTag(ctx, tag); err != nil {
		return err
	}
	delete(f.tags, tag)
	return nil
}

type fakeImages struct {
	repo     string
	arches   []string
	tags     map[string]string // tag -> manifest
	calls    []string
	checkErr error
	retagErr error
}

func newFakeImages(repo string, arches []string, versions ...string) *fakeImages {
	tags := map[string]string{}
	for _, version := range versions {
		for _, arch := range arches {
			tags[version+"-"+arch] = "manifest-" + version
		}
	}
	return &fakeImages{repo: repo, arches: arches, tags: tags}
}

func (f *fakeImages) Repo() string { return f.repo }

func (f *fakeImages) Check(_ context.Context, version string) error {
	f.calls = append(f.calls, "check "+version)
	if f.checkErr != nil {
		return f.checkErr
	}
	if _, ok := f.tags[version+"-"+f.arches[0]]; !ok {
		return entities.NewNotFoundError("image with tag '%s-%s' not found in repo '%s'", version, f.arches[0], f.repo)
	}
	return nil
}

func (f *fakeImages) Retag(_ context.Context, from, to string) error {
	f.calls = append(f.calls, "retag "+from+" "+to)
	if f.retagErr != nil {
		return f.retagErr
	}
	for _, arch := range f.arches {
		manifest, ok := f.tags[from+"-"+arch]
		if !ok {
			return entities.NewNotFoundError("image not found in repo '%s' for tags: %s-%s", f.repo, from, arch)
		}
		f.tags[to+"-"+arch] = manifest
	}
	return nil
}

func (f *fakeImages) Delete(_ context.Context, version string) error {
	f.calls = append(f.calls, "delete "+version)
	found := false
	for _, arch := range f.arches {
		if _, ok := f.tags[version+"-"+arch]; ok {
			delete(f.tags, version+"-"+arch)
			found = true
		}
	}
	if !found {
		return entities.NewNotFoundError("image not found in repo '%s' for version %s", f.repo, version)
	}
	return nil
}
