// Package github is the repository client: it compares revisions and reads
// CI history through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v56/github"

	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/models"
)

// UserAgent identifies the notifier to the GitHub API
const UserAgent = "diff-notifier"

// Options configures a Client
type Options struct {
	Owner      string
	Repo       string
	Token      string
	BaseURL    string // API root, defaults to https://api.github.com/
	HTTPClient *http.Client
}

// Client talks to a single repository
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// New creates a repository client
func New(opts Options) (*Client, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, apperrors.ConfigInvalid("repository owner and name are required")
	}

	client := gh.NewClient(opts.HTTPClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	client.UserAgent = UserAgent

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, apperrors.ConfigInvalid(fmt.Sprintf("invalid GitHub API URL %q: %v", opts.BaseURL, err))
		}
		client.BaseURL = u
	}

	return &Client{gh: client, owner: opts.Owner, repo: opts.Repo}, nil
}

// ParseRepository splits "owner/repo"
func ParseRepository(full string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(full), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be in owner/repo form, got %q", full)
	}
	return parts[0], parts[1], nil
}

// Compare returns the commits and changed files between base and head
func (c *Client) Compare(ctx context.Context, rng models.RevisionRange) (models.Comparison, error) {
	cmp, _, err := c.gh.Repositories.CompareCommits(ctx, c.owner, c.repo, rng.Base, rng.Head, nil)
	if err != nil {
		return models.Comparison{}, apperrors.Transport(apperrors.CollaboratorGitHub, err)
	}

	out := models.Comparison{
		Commits: make([]models.Commit, 0, len(cmp.Commits)),
		Files:   make([]models.ChangedFile, 0, len(cmp.Files)),
	}
	for _, commit := range cmp.Commits {
		out.Commits = append(out.Commits, models.Commit{
			ID:      commit.GetSHA(),
			Message: commit.GetCommit().GetMessage(),
		})
	}
	for _, file := range cmp.Files {
		out.Files = append(out.Files, models.ChangedFile{Path: file.GetFilename()})
	}

	return out, nil
}

// LastCheckedCommit returns the commit the latest check suite on branch was
// run against. The boolean is false when the branch has no check suites.
func (c *Client) LastCheckedCommit(ctx context.Context, branch string) (string, bool, error) {
	res, _, err := c.gh.Checks.ListCheckSuitesForRef(ctx, c.owner, c.repo, branch, nil)
	if err != nil {
		return "", false, apperrors.Transport(apperrors.CollaboratorGitHub, err)
	}

	if res.GetTotal() == 0 || len(res.CheckSuites) == 0 {
		return "", false, nil
	}

	sha := res.CheckSuites[len(res.CheckSuites)-1].GetBeforeSHA()
	if sha == "" {
		return "", false, nil
	}
	return sha, true, nil
}

// LatestRunID returns the id of the latest successful run of workflow on branch
func (c *Client) LatestRunID(ctx context.Context, workflow, branch string) (int64, bool, error) {
	opts := &gh.ListWorkflowRunsOptions{
		Branch:      branch,
		Status:      "success",
		ListOptions: gh.ListOptions{PerPage: 1},
	}

	runs, _, err := c.gh.Actions.ListWorkflowRunsByFileName(ctx, c.owner, c.repo, workflow, opts)
	if err != nil {
		return 0, false, apperrors.Transport(apperrors.CollaboratorGitHub, err)
	}

	if len(runs.WorkflowRuns) == 0 {
		return 0, false, nil
	}
	return runs.WorkflowRuns[0].GetID(), true, nil
}

// ArtifactURL returns the public download link of a run's artifacts
func (c *Client) ArtifactURL(runID int64) string {
	return fmt.Sprintf("https://nightly.link/%s/%s/actions/runs/%d/artifact.zip", c.owner, c.repo, runID)
}
