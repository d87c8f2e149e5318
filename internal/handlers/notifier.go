package handlers

import (
	"context"

	"github.com/nahidhasan98/diff-notifier/internal/app"
	"github.com/nahidhasan98/diff-notifier/internal/config"
	"github.com/nahidhasan98/diff-notifier/internal/notify"
	"github.com/nahidhasan98/diff-notifier/internal/validation"
)

// deferredNotifier builds the configured notifier on the first Send, so a
// run that fails before sending never opens the WhatsApp session store.
type deferredNotifier struct {
	h *Handler
}

func (d deferredNotifier) Send(ctx context.Context, text string, mode notify.Mode) error {
	n, err := d.h.notifier(ctx)
	if err != nil {
		return err
	}
	return n.Send(ctx, text, mode)
}

// checkNotifier validates notifier settings without opening anything
func (h *Handler) checkNotifier() error {
	if err := h.cfg.ValidateNotifier(); err != nil {
		return err
	}
	if h.cfg.Notifier == config.NotifierWhatsApp {
		if _, appErr := validation.New().NormalizeJID(h.cfg.WhatsApp.Recipient); appErr != nil {
			return appErr
		}
	}
	return nil
}

func (h *Handler) buildNotifier(ctx context.Context) (notify.Notifier, error) {
	if err := h.checkNotifier(); err != nil {
		return nil, err
	}

	if h.cfg.Notifier != config.NotifierWhatsApp {
		tg, err := notify.NewTelegram(notify.TelegramOptions{
			Token:      h.cfg.Telegram.BotToken,
			ChatID:     h.cfg.Telegram.ChatID,
			APIURL:     h.cfg.Telegram.APIURL,
			HTTPClient: h.httpClient,
		}, h.log.Component("telegram"))
		if err != nil {
			return nil, err
		}
		return tg, nil
	}

	client, err := h.whatsAppClient(ctx)
	if err != nil {
		return nil, err
	}
	wa, err := notify.NewWhatsApp(client, h.cfg.WhatsApp.Recipient, h.log.Component("whatsapp"))
	if err != nil {
		return nil, err
	}
	return wa, nil
}

func (h *Handler) whatsAppClient(ctx context.Context) (*app.WhatsAppClient, error) {
	return app.NewWhatsAppClient(ctx, app.ClientOptions{
		DBDriver:   h.cfg.Database.Driver,
		DBDSN:      h.cfg.Database.DSN,
		LogLevel:   h.cfg.WhatsApp.LogLevel,
		DeviceName: h.cfg.WhatsApp.DeviceName,
	}, h.log.Component("whatsapp"))
}
