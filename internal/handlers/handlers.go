// Package handlers runs the command line actions against the configured
// repository and chat channel.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/nahidhasan98/diff-notifier/internal/config"
	"github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/notify"
)

// Handler holds dependencies for the actions
type Handler struct {
	cfg        *config.Config
	log        *logger.Logger
	out        io.Writer
	httpClient *http.Client

	// notifier builds the configured notifier; replaced in tests
	notifier func(ctx context.Context) (notify.Notifier, error)
}

// New creates a new handler instance. out receives interactive output such
// as the pairing QR code.
func New(cfg *config.Config, log *logger.Logger, out io.Writer) *Handler {
	h := &Handler{
		cfg:        cfg,
		log:        log,
		out:        out,
		httpClient: &http.Client{Timeout: cfg.Timeouts.HTTP},
	}
	h.notifier = h.buildNotifier
	return h
}

// Run executes a parsed invocation
func (h *Handler) Run(ctx context.Context, inv Invocation) error {
	h.log.Infof("Current action is %s", inv.Action)

	switch inv.Action {
	case ActionDiff, ActionCore:
		return h.Diff(ctx, inv.Base, inv.Head)
	case ActionPlugin:
		return h.Plugin(ctx, inv.Path)
	case ActionPair:
		return h.Pair(ctx)
	default:
		return errors.Usage("Unknown action: " + inv.Action)
	}
}
