package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Invocation errors
	ErrCodeUsage         ErrorCode = "USAGE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInvalidJID    ErrorCode = "INVALID_JID"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"

	// Collaborator errors
	ErrCodeTransport       ErrorCode = "TRANSPORT_ERROR"
	ErrCodeChannelRejected ErrorCode = "CHANNEL_REJECTED"
	ErrCodeEnrichment      ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeNotPaired       ErrorCode = "NOT_PAIRED"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"

	// Internal errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Collaborator names used in transport errors
const (
	CollaboratorGitHub   = "github"
	CollaboratorTelegram = "telegram"
	CollaboratorWhatsApp = "whatsapp"
	CollaboratorQuote    = "quote"
)

// AppError represents an application error with additional context
type AppError struct {
	Code     ErrorCode
	Message  string
	Details  string
	ExitCode int
	Err      error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: getExitCodeForError(code),
	}
}

// Wrap wraps an existing error with application context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: getExitCodeForError(code),
		Err:      err,
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: getExitCodeForError(code),
		Err:      err,
	}
}

// getExitCodeForError maps error codes to process exit codes
func getExitCodeForError(code ErrorCode) int {
	switch code {
	case ErrCodeUsage, ErrCodeConfigInvalid, ErrCodeInvalidJID:
		return 2
	default:
		return 1
	}
}

// As reports whether err carries an *AppError and returns it
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an *AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// ExitCode returns the process exit code for err; nil maps to 0
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr, ok := As(err); ok {
		return appErr.ExitCode
	}
	return 1
}

// Common error constructors for convenience

// Usage creates a usage error
func Usage(message string) *AppError {
	return New(ErrCodeUsage, message)
}

// ConfigInvalid creates a configuration error
func ConfigInvalid(message string) *AppError {
	return New(ErrCodeConfigInvalid, message)
}

// InvalidJID creates an invalid JID error
func InvalidJID(jid string) *AppError {
	return New(ErrCodeInvalidJID, fmt.Sprintf("Invalid WhatsApp JID: %s", jid))
}

// InvalidInput creates an error for an unreadable or malformed input file
func InvalidInput(err error, message string) *AppError {
	return Wrap(err, ErrCodeInvalidInput, message)
}

// Transport creates a transport error naming the collaborator that failed
func Transport(collaborator string, err error) *AppError {
	e := Wrapf(err, ErrCodeTransport, "%s request failed", collaborator)
	e.Details = collaborator
	return e
}

// ChannelRejected creates an error for a structured rejection by the chat channel.
// The description is kept verbatim in the message.
func ChannelRejected(collaborator, description string) *AppError {
	if description == "" {
		description = "unknown error"
	}
	e := New(ErrCodeChannelRejected, fmt.Sprintf("%s reported an error: %s", collaborator, description))
	e.Details = collaborator
	return e
}

// Enrichment creates an enrichment error; callers never surface it
func Enrichment(source string, err error) *AppError {
	e := Wrapf(err, ErrCodeEnrichment, "%s enrichment unavailable", source)
	e.Details = source
	return e
}

// NotPaired creates an error for a WhatsApp store without a linked device
func NotPaired() *AppError {
	return New(ErrCodeNotPaired, "No WhatsApp session found, run the pair action first")
}

// Timeout creates a timeout error
func Timeout(err error) *AppError {
	return Wrap(err, ErrCodeTimeout, "Run exceeded its deadline")
}

// InternalError creates an internal error
func InternalError(err error) *AppError {
	return Wrap(err, ErrCodeInternalError, "Internal error")
}

// DatabaseError creates a database error
func DatabaseError(err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, "Database operation failed")
}
