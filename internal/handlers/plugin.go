package handlers

import (
	"context"

	"github.com/nahidhasan98/diff-notifier/internal/plugins"
)

// Plugin notifies about the plugin updates listed in the JSON file at path.
// A bad or empty file never opens a chat session.
func (h *Handler) Plugin(ctx context.Context, path string) error {
	return plugins.Report(ctx, deferredNotifier{h}, path, h.log)
}
