package gateways

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
)

// GitHubTagRegistry works with release tags and releases in one GitHub
// repository.
type GitHubTagRegistry struct {
	client *github.Client
	owner  string
	name   string
	log    interfaces.Logger
}

// NewGitHubClient builds an authenticated GitHub API client. An empty token
// is a configuration error, reported before any network call.
func NewGitHubClient(ctx context.Context, token string) (*github.Client, error) {
	if token == "" {
		return nil, entities.NewConfigError("GITHUB_TOKEN environment variable is required")
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, src)), nil
}

// NewGitHubTagRegistry creates a tag registry for an "owner/name" repository.
func NewGitHubTagRegistry(client *github.Client, repo string, log interfaces.Logger) (*GitHubTagRegistry, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, entities.NewConfigError("repository %q is not in owner/name form", repo)
	}

	return &GitHubTagRegistry{client: client, owner: owner, name: name, log: log}, nil
}

// Repo returns the "owner/name" repository identifier.
func (g *GitHubTagRegistry) Repo() string { return g.owner + "/" + g.name }

// ListTags returns every tag name in the repository.
func (g *GitHubTagRegistry) ListTags(ctx context.Context) ([]string, error) {
	var names []string
	opts := &github.ListOptions{PerPage: 100}

	for {
		tags, resp, err := g.client.Repositories.ListTags(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, entities.WrapCommandError(err,
				"an error occurred getting tags from repo '%s' from GitHub API", g.Repo())
		}

		for _, tag := range tags {
			names = append(names, tag.GetName())
		}

		if resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}

// CheckTag probes for the tag's ref.
func (g *GitHubTagRegistry) CheckTag(ctx context.Context, tag string) error {
	_, err := g.getTagRef(ctx, tag)
	return err
}

// DeleteTag deletes the tag's ref. The ref is fetched first so an absent tag
// surfaces as NotFoundError rather than a silent success.
func (g *GitHubTagRegistry) DeleteTag(ctx context.Context, tag string) error {
	if _, err := g.getTagRef(ctx, tag); err != nil {
		return err
	}

	if _, err := g.client.Git.DeleteRef(ctx, g.owner, g.name, "tags/"+tag); err != nil {
		return entities.WrapCommandError(err,
			"an error occurred deleting ref for tag '%s' from GitHub API", tag)
	}

	g.log.Debug("deleted tag ref", interfaces.F("repo", g.Repo()), interfaces.F("tag", tag))
	return nil
}

// CreateRelease publishes a GitHub release named releaseName from an existing
// tag, generating release notes against the most recent prior release when
// one exists.
func (g *GitHubTagRegistry) CreateRelease(ctx context.Context, tagName, releaseName string, prerelease bool) error {
	notes, err := g.generateNotes(ctx, releaseName)
	if err != nil {
		return err
	}

	release := &github.RepositoryRelease{
		TagName:              github.String(tagName),
		Name:                 github.String(releaseName),
		Body:                 github.String(notes),
		Prerelease:           github.Bool(prerelease),
		GenerateReleaseNotes: github.Bool(false),
	}

	if _, _, err := g.client.Repositories.CreateRelease(ctx, g.owner, g.name, release); err != nil {
		return entities.WrapCommandError(err,
			"an error occurred creating a release for tag '%s' with the GitHub API", tagName)
	}

	return nil
}

func (g *GitHubTagRegistry) generateNotes(ctx context.Context, releaseName string) (string, error) {
	var releases []*github.RepositoryRelease
	opts := &github.ListOptions{PerPage: 100}

	for {
		page, resp, err := g.client.Repositories.ListReleases(ctx, g.owner, g.name, opts)
		if err != nil {
			return "", entities.WrapCommandError(err,
				"an error occurred getting releases from repo '%s' from GitHub API", g.Repo())
		}

		releases = append(releases, page...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(releases) == 0 {
		return "", nil
	}

	sort.Slice(releases, func(i, j int) bool {
		return releases[i].GetCreatedAt().After(releases[j].GetCreatedAt().Time)
	})
	previous := releases[0].GetTagName()

	notes, _, err := g.client.Repositories.GenerateReleaseNotes(ctx, g.owner, g.name, &github.GenerateNotesOptions{
		TagName:         releaseName,
		PreviousTagName: github.String(previous),
	})
	if err != nil {
		return "", entities.WrapCommandError(err,
			"an error occurred generating release notes with the GitHub API")
	}

	return notes.Body, nil
}

func (g *GitHubTagRegistry) getTagRef(ctx context.Context, tag string) (*github.Reference, error) {
	ref, resp, err := g.client.Git.GetRef(ctx, g.owner, g.name, "tags/"+tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, entities.NewNotFoundError(
				"ref for tag '%s' not found in repo '%s'", tag, g.Repo())
		}
		return nil, entities.WrapCommandError(err,
			"an error occurred getting ref for tag '%s' from GitHub API", tag)
	}

	if ref == nil || ref.Ref == nil {
		return nil, entities.NewNotFoundError(
			"ref for tag '%s' returned from GitHub API not found", tag)
	}

	return ref, nil
}
