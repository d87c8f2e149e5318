package notify

import (
	"context"

	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/validation"
)

// TextSender is the part of the WhatsApp client the notifier needs
type TextSender interface {
	Connect(ctx context.Context) error
	SendText(ctx context.Context, toJID string, text string) error
	Disconnect()
}

// WhatsApp sends messages through a linked WhatsApp device
type WhatsApp struct {
	client    TextSender
	recipient string
	log       *logger.Logger
	validator *validation.Validator
}

// NewWhatsApp creates a WhatsApp notifier for one recipient JID or phone number
func NewWhatsApp(client TextSender, recipient string, log *logger.Logger) (*WhatsApp, error) {
	v := validation.New()
	jid, appErr := v.NormalizeJID(recipient)
	if appErr != nil {
		return nil, appErr
	}

	return &WhatsApp{
		client:    client,
		recipient: jid,
		log:       log,
		validator: v,
	}, nil
}

// Send converts the markup and delivers the message. The connection lives
// only for the duration of the call.
func (w *WhatsApp) Send(ctx context.Context, text string, mode Mode) error {
	// Disconnect also closes the session store, so it runs on every path
	defer w.client.Disconnect()

	body := w.validator.SanitizeMessage(ToWhatsApp(text, mode))
	if appErr := w.validator.ValidateMessage(body); appErr != nil {
		return appErr
	}
	if appErr := w.validator.ValidateLength(body); appErr != nil {
		return apperrors.ChannelRejected(apperrors.CollaboratorWhatsApp, appErr.Message)
	}

	w.log.Debugf("Content sent to WhatsApp:\n%s", body)

	if err := w.client.Connect(ctx); err != nil {
		if _, ok := apperrors.As(err); ok || ctx.Err() != nil {
			return err
		}
		return apperrors.Transport(apperrors.CollaboratorWhatsApp, err)
	}

	if err := w.client.SendText(ctx, w.recipient, body); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.Transport(apperrors.CollaboratorWhatsApp, err)
	}

	return nil
}
