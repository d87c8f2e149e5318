// Package compose assembles the change notification from the repository
// comparison, the classification of its files and the optional enrichments.
package compose

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/nahidhasan98/diff-notifier/internal/advisory"
	"github.com/nahidhasan98/diff-notifier/internal/classify"
	"github.com/nahidhasan98/diff-notifier/internal/commitlog"
	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/models"
	"github.com/nahidhasan98/diff-notifier/internal/notify"
)

// ArtifactLabel is the text of the snapshot download link
const ArtifactLabel = "Snapshot download"

// Resolver turns optional CLI revisions into a complete range
type Resolver interface {
	Resolve(ctx context.Context, base, head string) (models.RevisionRange, error)
}

// Repository lists the commits and changed files of a range
type Repository interface {
	Compare(ctx context.Context, rng models.RevisionRange) (models.Comparison, error)
}

// QuoteFetcher returns decorative text appended to the message
type QuoteFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// RunFinder locates the latest successful workflow run for artifact links
type RunFinder interface {
	LatestRunID(ctx context.Context, workflow, branch string) (int64, bool, error)
	ArtifactURL(runID int64) string
}

// Options wires the composer. Quote and Runs are optional; nil disables them.
type Options struct {
	Resolver   Resolver
	Repository Repository
	Notifier   notify.Notifier

	Classifier *classify.Classifier
	CommitLog  *commitlog.Renderer
	Advisory   *advisory.Renderer

	Quote            QuoteFetcher
	Runs             RunFinder
	ArtifactWorkflow string
	ArtifactBranch   string

	// Timeout bounds a whole Run; zero means no bound
	Timeout time.Duration

	Log *logger.Logger
}

// Composer builds and sends the change notification
type Composer struct {
	opts Options
	log  *logger.Logger
}

// New creates a composer, filling unset renderers with their defaults
func New(opts Options) *Composer {
	if opts.Classifier == nil {
		opts.Classifier = classify.New(nil)
	}
	if opts.CommitLog == nil {
		opts.CommitLog = commitlog.New(commitlog.Options{})
	}
	if opts.Advisory == nil {
		opts.Advisory = advisory.New(advisory.Options{})
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	return &Composer{
		opts: opts,
		log:  log.Component("compose"),
	}
}

// Compose resolves the range, gathers its data and renders the message
func (c *Composer) Compose(ctx context.Context, base, head string) (string, error) {
	rng, err := c.opts.Resolver.Resolve(ctx, base, head)
	if err != nil {
		return "", err
	}
	c.log.Infof("Comparing %s", rng)

	var (
		comparison models.Comparison
		quoteText  string
		artifact   string
	)

	branches := []Branch{{
		Name:   "compare",
		Policy: Required,
		Run: func(ctx context.Context) error {
			var err error
			comparison, err = c.opts.Repository.Compare(ctx, rng)
			return err
		},
	}}

	if c.opts.Quote != nil {
		branches = append(branches, Branch{
			Name:   apperrors.CollaboratorQuote,
			Policy: Optional,
			Run: func(ctx context.Context) error {
				text, err := c.opts.Quote.Fetch(ctx)
				if err != nil {
					return apperrors.Enrichment(apperrors.CollaboratorQuote, err)
				}
				quoteText = text
				return nil
			},
		})
	}

	if c.opts.Runs != nil && c.opts.ArtifactWorkflow != "" {
		branches = append(branches, Branch{
			Name:   "artifact",
			Policy: Optional,
			Run: func(ctx context.Context) error {
				link, err := c.artifactLink(ctx)
				if err != nil {
					return apperrors.Enrichment("artifact", err)
				}
				artifact = link
				return nil
			},
		})
	}

	soft, err := Join(ctx, branches...)
	for _, f := range soft {
		c.log.Infof("Leaving out %s: %v", f.Branch, f.Err)
	}
	if err != nil {
		return "", err
	}

	classification := c.opts.Classifier.Classify(comparison.Files)
	c.log.Debugf("%d commits, %d changed files, classification %+v",
		len(comparison.Commits), len(comparison.Files), classification)

	parts := []string{
		c.opts.CommitLog.Render(comparison.Commits),
		c.opts.Advisory.Render(classification),
	}
	if artifact != "" {
		parts = append(parts, artifact)
	}
	if quoteText != "" {
		parts = append(parts, quoteText)
	}

	msg := strings.Join(parts, "\n")
	c.log.Debugf("Composed message:\n%s", msg)

	return msg, nil
}

func (c *Composer) artifactLink(ctx context.Context) (string, error) {
	id, ok, err := c.opts.Runs.LatestRunID(ctx, c.opts.ArtifactWorkflow, c.opts.ArtifactBranch)
	if err != nil {
		return "", err
	}
	if !ok {
		c.log.Infof("No successful run of %s yet", c.opts.ArtifactWorkflow)
		return "", nil
	}

	href := html.EscapeString(c.opts.Runs.ArtifactURL(id))
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, ArtifactLabel), nil
}

// Run composes the message and sends it. Nothing is sent when any required
// step fails or the run deadline passes.
func (c *Composer) Run(ctx context.Context, base, head string) error {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	msg, err := c.Compose(ctx, base, head)
	if err != nil {
		return deadlineError(ctx, err)
	}

	if err := c.opts.Notifier.Send(ctx, msg, notify.ModeHTML); err != nil {
		return deadlineError(ctx, err)
	}

	return nil
}

// deadlineError reports a run cut short by its deadline as a timeout
func deadlineError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Timeout(err)
	}
	return err
}
