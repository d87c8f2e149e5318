package handlers

import (
	"context"

	"github.com/nahidhasan98/diff-notifier/internal/config"
)

// Pair links a WhatsApp device to the session store by QR code
func (h *Handler) Pair(ctx context.Context) error {
	if h.cfg.Notifier != config.NotifierWhatsApp {
		h.log.Warnf("NOTIFIER is %s, the paired session is only used by whatsapp", h.cfg.Notifier)
	}

	client, err := h.whatsAppClient(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	return client.Pair(ctx, h.out)
}
