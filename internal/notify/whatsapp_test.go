package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/validation"
)

type fakeSender struct {
	connectErr   error
	sendErr      error
	to, text     string
	disconnected bool
}

func (f *fakeSender) Connect(context.Context) error { return f.connectErr }

func (f *fakeSender) SendText(_ context.Context, to, text string) error {
	f.to, f.text = to, text
	return f.sendErr
}

func (f *fakeSender) Disconnect() { f.disconnected = true }

func TestWhatsAppSend(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	wa, err := NewWhatsApp(sender, "+880 1712-345678", logger.Nop())
	if err != nil {
		t.Fatalf("NewWhatsApp: %v", err)
	}

	if err := wa.Send(context.Background(), "<strong>a</strong> &amp; b", ModeHTML); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sender.to != "8801712345678@s.whatsapp.net" {
		t.Fatalf("recipient = %q", sender.to)
	}
	if sender.text != "*a* & b" {
		t.Fatalf("text = %q", sender.text)
	}
	if !sender.disconnected {
		t.Fatal("expected client to be disconnected after send")
	}
}

func TestWhatsAppErrors(t *testing.T) {
	t.Parallel()

	notPaired := &fakeSender{connectErr: apperrors.NotPaired()}
	wa, _ := NewWhatsApp(notPaired, "120363025246125486@g.us", logger.Nop())
	if err := wa.Send(context.Background(), "hi", ModeHTML); !apperrors.HasCode(err, apperrors.ErrCodeNotPaired) {
		t.Fatalf("expected not paired, got %v", err)
	}
	if !notPaired.disconnected {
		t.Fatal("session store must be closed when connecting fails")
	}

	failing := &fakeSender{sendErr: errors.New("socket closed")}
	wa, _ = NewWhatsApp(failing, "120363025246125486@g.us", logger.Nop())
	if err := wa.Send(context.Background(), "hi", ModeHTML); !apperrors.HasCode(err, apperrors.ErrCodeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if _, err := NewWhatsApp(&fakeSender{}, "someone@example.com", logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeInvalidJID) {
		t.Fatalf("expected invalid JID, got %v", err)
	}
}

func TestWhatsAppRejectsOversizedText(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	wa, _ := NewWhatsApp(sender, "120363025246125486@g.us", logger.Nop())

	err := wa.Send(context.Background(), strings.Repeat("a", validation.MaxMessageLength+1), ModeHTML)
	if !apperrors.HasCode(err, apperrors.ErrCodeChannelRejected) {
		t.Fatalf("expected channel rejection, got %v", err)
	}
	if sender.text != "" {
		t.Fatal("oversized text must not be sent")
	}
	if !sender.disconnected {
		t.Fatal("session store must be closed on rejection")
	}
}
