// Package revision resolves the (base, head) pair a run reports on.
package revision

import (
	"context"

	"github.com/nahidhasan98/diff-notifier/internal/models"
)

const (
	// ParentOfHead is used as base when CI has never checked the branch
	ParentOfHead = "HEAD^"

	// Head is the default head revision
	Head = "HEAD"
)

// CheckHistory looks up the last commit CI validated on a branch
type CheckHistory interface {
	LastCheckedCommit(ctx context.Context, branch string) (string, bool, error)
}

// Resolver fills in missing revision identifiers
type Resolver struct {
	history     CheckHistory
	branch      string
	defaultHead string
}

// New creates a resolver for the tracked branch. Empty defaultHead selects Head.
func New(history CheckHistory, branch, defaultHead string) *Resolver {
	if defaultHead == "" {
		defaultHead = Head
	}
	return &Resolver{history: history, branch: branch, defaultHead: defaultHead}
}

// Resolve returns a range with both ends set. Supplied identifiers are used
// verbatim; a missing base costs exactly one CheckHistory call, whose error
// is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, base, head string) (models.RevisionRange, error) {
	if base == "" {
		sha, ok, err := r.history.LastCheckedCommit(ctx, r.branch)
		if err != nil {
			return models.RevisionRange{}, err
		}
		base = ParentOfHead
		if ok {
			base = sha
		}
	}

	if head == "" {
		head = r.defaultHead
	}

	return models.RevisionRange{Base: base, Head: head}, nil
}
