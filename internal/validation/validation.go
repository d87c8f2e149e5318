package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nahidhasan98/diff-notifier/internal/errors"
)

// MaxMessageLength is the longest message either chat channel accepts
const MaxMessageLength = 4096

// WhatsApp JID patterns
var (
	// Individual JID pattern: number@s.whatsapp.net
	individualJIDPattern = regexp.MustCompile(`^\d{10,15}@s\.whatsapp\.net$`)

	// Group JID pattern: groupid@g.us (groups created by newer clients use a dash)
	groupJIDPattern = regexp.MustCompile(`^\d+(-\d+)?@g\.us$`)

	// Business JID pattern: number@c.us
	businessJIDPattern = regexp.MustCompile(`^\d{10,15}@c\.us$`)

	nonDigitPattern  = regexp.MustCompile(`\D`)
	newlineRunRegexp = regexp.MustCompile(`\n{3,}`)

	// Telegram chat ids: numeric (optionally negative) or a public @username
	numericChatPattern  = regexp.MustCompile(`^-?\d+$`)
	usernameChatPattern = regexp.MustCompile(`^@?[A-Za-z][A-Za-z0-9_]{3,}$`)
)

// Validator provides validation methods
type Validator struct{}

// New creates a new validator instance
func New() *Validator {
	return &Validator{}
}

// ValidateMessage checks that a composed message is not blank
func (v *Validator) ValidateMessage(message string) *errors.AppError {
	if strings.TrimSpace(message) == "" {
		return errors.New(errors.ErrCodeInternalError, "Message is empty")
	}

	return nil
}

// ValidateLength checks the visible text of a plain-text message against
// MaxMessageLength. Markup-carrying messages are measured by the channel.
func (v *Validator) ValidateLength(message string) *errors.AppError {
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return errors.New(errors.ErrCodeInternalError, "Message too long (maximum 4096 characters)")
	}

	return nil
}

// IsValidJID checks if a JID is valid WhatsApp format
func (v *Validator) IsValidJID(jid string) bool {
	jid = strings.TrimSpace(jid)

	return individualJIDPattern.MatchString(jid) ||
		groupJIDPattern.MatchString(jid) ||
		businessJIDPattern.MatchString(jid)
}

// NormalizeJID normalizes a JID to proper WhatsApp format
func (v *Validator) NormalizeJID(jid string) (string, *errors.AppError) {
	jid = strings.TrimSpace(jid)

	// If already in proper format, return as is
	if v.IsValidJID(jid) {
		return jid, nil
	}

	// Try to normalize phone number to individual JID
	if phoneNumber := v.extractPhoneNumber(jid); phoneNumber != "" {
		normalizedJID := phoneNumber + "@s.whatsapp.net"
		if v.IsValidJID(normalizedJID) {
			return normalizedJID, nil
		}
	}

	return "", errors.InvalidJID(jid)
}

// extractPhoneNumber extracts a phone number from various formats
func (v *Validator) extractPhoneNumber(input string) string {
	if strings.Contains(input, "@") {
		return ""
	}

	phone := nonDigitPattern.ReplaceAllString(input, "")

	// Check if it's a valid phone number length (10-15 digits)
	if len(phone) >= 10 && len(phone) <= 15 {
		return phone
	}

	return ""
}

// NormalizeTelegramChat returns the chat identifier Telegram expects:
// numeric ids as they are, channel usernames with a leading '@'.
func (v *Validator) NormalizeTelegramChat(chat string) (string, *errors.AppError) {
	chat = strings.TrimSpace(chat)

	if numericChatPattern.MatchString(chat) {
		return chat, nil
	}

	if usernameChatPattern.MatchString(chat) {
		if !strings.HasPrefix(chat, "@") {
			chat = "@" + chat
		}
		return chat, nil
	}

	return "", errors.ConfigInvalid("Invalid Telegram chat id: " + chat)
}

// SanitizeMessage sanitizes a message by removing potential harmful content
func (v *Validator) SanitizeMessage(message string) string {
	// Trim whitespace
	message = strings.TrimSpace(message)

	// Remove null bytes
	message = strings.ReplaceAll(message, "\x00", "")

	// Limit consecutive newlines
	message = newlineRunRegexp.ReplaceAllString(message, "\n\n")

	return message
}
