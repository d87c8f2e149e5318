package validation

import (
	"strings"
	"testing"

	"github.com/nahidhasan98/diff-notifier/internal/errors"
)

func TestNormalizeJID(t *testing.T) {
	t.Parallel()
	v := New()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "8801712345678@s.whatsapp.net", want: "8801712345678@s.whatsapp.net"},
		{in: "120363025246125486@g.us", want: "120363025246125486@g.us"},
		{in: "8801712345678-1599999999@g.us", want: "8801712345678-1599999999@g.us"},
		{in: "+880 1712-345678", want: "8801712345678@s.whatsapp.net"},
		{in: "12345", wantErr: true},
		{in: "someone@example.com", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, appErr := v.NormalizeJID(tt.in)
			if tt.wantErr {
				if appErr == nil || appErr.Code != errors.ErrCodeInvalidJID {
					t.Fatalf("NormalizeJID(%q) = %q, expected invalid JID error", tt.in, got)
				}
				return
			}
			if appErr != nil {
				t.Fatalf("NormalizeJID(%q) error: %v", tt.in, appErr)
			}
			if got != tt.want {
				t.Fatalf("NormalizeJID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTelegramChat(t *testing.T) {
	t.Parallel()
	v := New()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "bs_community", want: "@bs_community"},
		{in: "@bs_community", want: "@bs_community"},
		{in: "-1001234567890", want: "-1001234567890"},
		{in: "123456", want: "123456"},
		{in: "", wantErr: true},
		{in: "has space", wantErr: true},
	}

	for _, tt := range tests {
		got, appErr := v.NormalizeTelegramChat(tt.in)
		if tt.wantErr {
			if appErr == nil {
				t.Fatalf("NormalizeTelegramChat(%q) = %q, expected error", tt.in, got)
			}
			continue
		}
		if appErr != nil || got != tt.want {
			t.Fatalf("NormalizeTelegramChat(%q) = (%q, %v), want %q", tt.in, got, appErr, tt.want)
		}
	}
}

func TestSanitizeMessage(t *testing.T) {
	t.Parallel()
	got := New().SanitizeMessage("  a\x00b\n\n\n\nc  ")
	if got != "ab\n\nc" {
		t.Fatalf("SanitizeMessage = %q, want %q", got, "ab\n\nc")
	}
}

func TestValidateMessage(t *testing.T) {
	t.Parallel()
	v := New()
	if appErr := v.ValidateMessage("hello"); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if appErr := v.ValidateMessage("   "); appErr == nil {
		t.Fatal("expected error for blank message")
	}
	if appErr := v.ValidateMessage(strings.Repeat("a", MaxMessageLength+1)); appErr != nil {
		t.Fatalf("ValidateMessage must not limit length: %v", appErr)
	}
}

func TestValidateLength(t *testing.T) {
	t.Parallel()
	v := New()
	if appErr := v.ValidateLength(strings.Repeat("字", MaxMessageLength)); appErr != nil {
		t.Fatalf("limit counts characters, not bytes: %v", appErr)
	}
	if appErr := v.ValidateLength(strings.Repeat("a", MaxMessageLength+1)); appErr == nil {
		t.Fatal("expected error for oversized message")
	}
}
