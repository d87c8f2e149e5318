// Package commitlog renders the one-line-per-commit log of a notification.
package commitlog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/nahidhasan98/diff-notifier/internal/models"
)

var markdown = goldmark.New()

// Options configures a Renderer
type Options struct {
	// Mode selects first-line or full commit messages
	Mode models.MessageMode

	// LinkBase, when set, links each short id to LinkBase/commit/<id>,
	// e.g. "https://github.com/owner/repo".
	LinkBase string
}

// Renderer formats commits for the notification channel
type Renderer struct {
	mode     models.MessageMode
	linkBase string
}

// New creates a renderer
func New(opts Options) *Renderer {
	mode := opts.Mode
	if !mode.Valid() {
		mode = models.MessageFirstLine
	}
	return &Renderer{
		mode:     mode,
		linkBase: strings.TrimRight(opts.LinkBase, "/"),
	}
}

// Render returns one HTML line per commit, in input order
func (r *Renderer) Render(commits []models.Commit) string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, r.line(models.NewCommitRecord(c, r.mode)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) line(rec models.CommitRecord) string {
	id := fmt.Sprintf("**%s**", rec.ShortID)
	if r.linkBase != "" {
		id = fmt.Sprintf("[%s](%s/commit/%s)", id, r.linkBase, rec.ID)
	}
	return ToHTML(id + ": " + rec.FirstLine)
}

// ToHTML converts one line of Markdown to Telegram-compatible HTML. Angle
// brackets are escaped before conversion so raw text never becomes a tag,
// and a single wrapping paragraph is removed.
func ToHTML(text string) string {
	text = strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(text)

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		// Conversion only fails on writer errors, which a bytes.Buffer never returns.
		return text
	}

	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}
