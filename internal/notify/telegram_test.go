package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/nahidhasan98/diff-notifier/internal/commitlog"
	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/models"
	"github.com/nahidhasan98/diff-notifier/internal/validation"
)

const testToken = "123456:kumiko"

type recordedRequest struct {
	path   string
	params map[string]any
}

func newTelegramServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var got []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&params)
		mu.Lock()
		got = append(got, recordedRequest{path: r.URL.Path, params: params})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestTelegram(t *testing.T, apiURL, chat string) *Telegram {
	t.Helper()
	tg, err := NewTelegram(TelegramOptions{Token: testToken, ChatID: chat, APIURL: apiURL}, logger.Nop())
	if err != nil {
		t.Fatalf("NewTelegram: %v", err)
	}
	return tg
}

func TestTelegramSend(t *testing.T) {
	t.Parallel()
	srv, got := newTelegramServer(t, http.StatusOK,
		`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-1001,"type":"channel"}}}`)

	tg := newTestTelegram(t, srv.URL, "bs_community")
	if err := tg.Send(context.Background(), "<strong>hello</strong>", ModeHTML); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(*got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*got))
	}
	req := (*got)[0]
	if req.path != "/bot"+testToken+"/sendMessage" {
		t.Fatalf("unexpected path %q", req.path)
	}
	if req.params["chat_id"] != "@bs_community" {
		t.Fatalf("chat_id = %v", req.params["chat_id"])
	}
	if req.params["text"] != "<strong>hello</strong>" {
		t.Fatalf("text = %v", req.params["text"])
	}
	if req.params["parse_mode"] != "HTML" {
		t.Fatalf("parse_mode = %v", req.params["parse_mode"])
	}
	if fmt.Sprint(req.params["disable_notification"]) != "true" {
		t.Fatalf("disable_notification = %v", req.params["disable_notification"])
	}
}

func TestTelegramRejection(t *testing.T) {
	t.Parallel()
	srv, _ := newTelegramServer(t, http.StatusBadRequest,
		`{"ok":false,"error_code":400,"description":"Bad Request: reina is not amused"}`)

	tg := newTestTelegram(t, srv.URL, "-1001234")
	err := tg.Send(context.Background(), "hello", ModeMarkdown)
	if !apperrors.HasCode(err, apperrors.ErrCodeChannelRejected) {
		t.Fatalf("expected channel rejection, got %v", err)
	}
	appErr, _ := apperrors.As(err)
	if want := "telegram reported an error: Bad Request: reina is not amused"; appErr.Message != want {
		t.Fatalf("Message = %q, want %q", appErr.Message, want)
	}
}

func TestTelegramSendsLinkedCommitLog(t *testing.T) {
	t.Parallel()
	srv, got := newTelegramServer(t, http.StatusOK,
		`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-1001,"type":"channel"}}}`)

	commits := make([]models.Commit, 30)
	for i := range commits {
		commits[i] = models.Commit{
			ID:      fmt.Sprintf("%040x", i+1),
			Message: "Update translations for the settings page",
		}
	}
	text := commitlog.New(commitlog.Options{LinkBase: "https://github.com/bs-community/blessing-skin-server"}).Render(commits)
	if utf8.RuneCountInString(text) <= validation.MaxMessageLength {
		t.Fatalf("markup should exceed %d runes for this case, got %d", validation.MaxMessageLength, utf8.RuneCountInString(text))
	}

	tg := newTestTelegram(t, srv.URL, "-1001234")
	if err := tg.Send(context.Background(), text, ModeHTML); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(*got) != 1 || (*got)[0].params["text"] != text {
		t.Fatalf("expected the full message in one request, got %d requests", len(*got))
	}
}

func TestTelegramTransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tg := newTestTelegram(t, url, "-1001234")
	err := tg.Send(context.Background(), "hello", ModeHTML)
	if !apperrors.HasCode(err, apperrors.ErrCodeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestTelegramRejectsEmptyMessage(t *testing.T) {
	t.Parallel()
	srv, got := newTelegramServer(t, http.StatusOK, `{"ok":true}`)

	tg := newTestTelegram(t, srv.URL, "-1001234")
	if err := tg.Send(context.Background(), "  \n ", ModeHTML); err == nil {
		t.Fatal("expected error for blank message")
	}
	if len(*got) != 0 {
		t.Fatalf("blank message must not reach the API, got %d requests", len(*got))
	}
}

func TestNewTelegramValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewTelegram(TelegramOptions{ChatID: "-1"}, logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid) {
		t.Fatalf("expected config error for missing token, got %v", err)
	}
	if _, err := NewTelegram(TelegramOptions{Token: testToken, ChatID: "no spaces allowed"}, logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid) {
		t.Fatalf("expected config error for bad chat, got %v", err)
	}
}
