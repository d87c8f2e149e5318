package handlers

import (
	"context"

	"github.com/nahidhasan98/diff-notifier/internal/advisory"
	"github.com/nahidhasan98/diff-notifier/internal/commitlog"
	"github.com/nahidhasan98/diff-notifier/internal/compose"
	"github.com/nahidhasan98/diff-notifier/internal/github"
	"github.com/nahidhasan98/diff-notifier/internal/quote"
	"github.com/nahidhasan98/diff-notifier/internal/revision"
)

// Diff notifies about the changes between base and head. Empty revisions
// are resolved from the repository's CI history and the default head.
func (h *Handler) Diff(ctx context.Context, base, head string) error {
	if err := h.cfg.ValidateRepository(); err != nil {
		return err
	}

	owner, repo, err := github.ParseRepository(h.cfg.GitHub.Repository)
	if err != nil {
		return err
	}

	gh, err := github.New(github.Options{
		Owner:      owner,
		Repo:       repo,
		Token:      h.cfg.GitHub.Token,
		BaseURL:    h.cfg.GitHub.APIURL,
		HTTPClient: h.httpClient,
	})
	if err != nil {
		return err
	}

	// Fail on bad credentials before any repository call
	if err := h.checkNotifier(); err != nil {
		return err
	}

	opts := compose.Options{
		Resolver:   revision.New(gh, h.cfg.GitHub.TrackedBranch, h.cfg.GitHub.DefaultHead),
		Repository: gh,
		Notifier:   deferredNotifier{h},
		CommitLog: commitlog.New(commitlog.Options{
			Mode:     h.cfg.Message.Mode,
			LinkBase: h.cfg.CommitLinkBase(),
		}),
		Advisory: advisory.New(advisory.Options{
			Commands: advisory.Commands{
				PackageInstall:    h.cfg.Advisory.PackageInstall,
				AssetBuild:        h.cfg.Advisory.AssetBuild,
				DependencyInstall: h.cfg.Advisory.DependencyInstall,
				Migrate:           h.cfg.Advisory.Migrate,
			},
			Pool: h.cfg.Advisory.NoActionPhrases,
		}),
		Timeout: h.cfg.Timeouts.Run,
		Log:     h.log,
	}

	if h.cfg.Message.QuoteEnabled {
		opts.Quote = quote.New(h.cfg.Message.QuoteEndpoint, h.httpClient)
	}

	if h.cfg.Message.ArtifactWorkflow != "" {
		opts.Runs = gh
		opts.ArtifactWorkflow = h.cfg.Message.ArtifactWorkflow
		opts.ArtifactBranch = h.cfg.Message.ArtifactBranch
	}

	return compose.New(opts).Run(ctx, base, head)
}
