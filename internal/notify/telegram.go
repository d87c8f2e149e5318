package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/validation"
)

var errorCodeSuffix = regexp.MustCompile(` \(\d+\)$`)

// TelegramOptions configures the Telegram notifier
type TelegramOptions struct {
	Token      string
	ChatID     string
	APIURL     string
	HTTPClient *http.Client
}

// chat is a Telegram recipient addressed by id or @username
type chat string

func (c chat) Recipient() string { return string(c) }

// Telegram sends messages through the Telegram Bot API
type Telegram struct {
	bot       *tele.Bot
	chat      chat
	log       *logger.Logger
	validator *validation.Validator
}

// NewTelegram creates a Telegram notifier. No request is made until Send.
func NewTelegram(opts TelegramOptions, log *logger.Logger) (*Telegram, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, apperrors.ConfigInvalid("telegram token is empty")
	}

	v := validation.New()
	chatID, appErr := v.NormalizeTelegramChat(opts.ChatID)
	if appErr != nil {
		return nil, appErr
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:     opts.APIURL,
		Token:   opts.Token,
		Client:  client,
		Offline: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to create Telegram bot")
	}

	return &Telegram{
		bot:       bot,
		chat:      chat(chatID),
		log:       log,
		validator: v,
	}, nil
}

// Send delivers text silently to the configured chat. Length is left to the
// API, which counts the text after parsing markup.
func (t *Telegram) Send(ctx context.Context, text string, mode Mode) error {
	text = t.validator.SanitizeMessage(text)
	if appErr := t.validator.ValidateMessage(text); appErr != nil {
		return appErr
	}

	t.log.Debugf("Content sent to Telegram (parse mode is %s):\n%s", mode, text)

	err := sendAsync(ctx, func() error {
		_, err := t.bot.Send(t.chat, text, &tele.SendOptions{
			ParseMode:           tele.ParseMode(mode),
			DisableNotification: true,
		})
		return err
	})
	if err != nil {
		return telegramError(err)
	}

	t.log.Info("Message sent successfully")
	return nil
}

// telegramError separates transport failures from structured rejections
func telegramError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var urlErr *url.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &urlErr) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperrors.Transport(apperrors.CollaboratorTelegram, err)
	}

	var teleErr *tele.Error
	if errors.As(err, &teleErr) {
		return apperrors.ChannelRejected(apperrors.CollaboratorTelegram, teleErr.Description)
	}

	// Unknown descriptions come back as "telegram: <description> (<code>)"
	desc := strings.TrimPrefix(err.Error(), "telegram: ")
	desc = errorCodeSuffix.ReplaceAllString(desc, "")
	return apperrors.ChannelRejected(apperrors.CollaboratorTelegram, desc)
}
