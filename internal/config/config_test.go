package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/models"
)

var envKeys = []string{
	"NOTIFIER", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "TELEGRAM_API_URL",
	"WHATSAPP_RECIPIENT", "WHATSAPP_LOG_LEVEL", "WHATSAPP_DEVICE_NAME",
	"DB_DRIVER", "DB_DSN", "GITHUB_REPOSITORY", "GITHUB_TOKEN", "GITHUB_API_URL",
	"GITHUB_SERVER_URL", "TRACKED_BRANCH", "DEFAULT_HEAD", "COMMIT_MESSAGE_MODE",
	"COMMIT_LINKS", "QUOTE_ENABLED", "QUOTE_ENDPOINT", "ARTIFACT_WORKFLOW",
	"ARTIFACT_BRANCH", "HTTP_TIMEOUT", "RUN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	"CONFIG_FILE",
}

// clearEnv isolates a test from variables a CI runner may already export
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notifier != NotifierTelegram {
		t.Fatalf("Notifier = %q", cfg.Notifier)
	}
	if cfg.GitHub.TrackedBranch != "dev" || cfg.GitHub.DefaultHead != "HEAD" {
		t.Fatalf("unexpected GitHub defaults %+v", cfg.GitHub)
	}
	if cfg.Message.Mode != models.MessageFirstLine || !cfg.Message.QuoteEnabled || cfg.Message.CommitLinks {
		t.Fatalf("unexpected message defaults %+v", cfg.Message)
	}
	if cfg.Message.ArtifactBranch != "dev" {
		t.Fatalf("artifact branch should follow the tracked branch, got %q", cfg.Message.ArtifactBranch)
	}
	if cfg.Timeouts.Run != 60*time.Second || cfg.Timeouts.HTTP != 10*time.Second {
		t.Fatalf("unexpected timeouts %+v", cfg.Timeouts)
	}
	if err := cfg.ValidateNotifier(); !errors.HasCode(err, errors.ErrCodeConfigInvalid) {
		t.Fatalf("missing Telegram credentials must be a config error, got %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "bs_community")
	t.Setenv("GITHUB_REPOSITORY", "kumiko/euphonium")
	t.Setenv("TRACKED_BRANCH", "main")
	t.Setenv("COMMIT_MESSAGE_MODE", "full")
	t.Setenv("COMMIT_LINKS", "true")
	t.Setenv("QUOTE_ENABLED", "false")
	t.Setenv("RUN_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateNotifier(); err != nil {
		t.Fatalf("ValidateNotifier: %v", err)
	}
	if err := cfg.ValidateRepository(); err != nil {
		t.Fatalf("ValidateRepository: %v", err)
	}
	if cfg.Message.Mode != models.MessageFull || cfg.Message.QuoteEnabled {
		t.Fatalf("unexpected message config %+v", cfg.Message)
	}
	if cfg.Timeouts.Run != 5*time.Second {
		t.Fatalf("Run timeout = %v", cfg.Timeouts.Run)
	}
	if got := cfg.CommitLinkBase(); got != "https://github.com/kumiko/euphonium" {
		t.Fatalf("CommitLinkBase = %q", got)
	}
	if cfg.Message.ArtifactBranch != "main" {
		t.Fatalf("ArtifactBranch = %q", cfg.Message.ArtifactBranch)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown notifier", env: map[string]string{"NOTIFIER": "carrier-pigeon"}},
		{name: "bad message mode", env: map[string]string{"COMMIT_MESSAGE_MODE": "subject"}},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}},
		{name: "missing config file", env: map[string]string{"CONFIG_FILE": "/nonexistent/notifier.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !errors.HasCode(err, errors.ErrCodeConfigInvalid) {
				t.Fatalf("expected config error, got %v", err)
			}
			if _, err := Load(); errors.ExitCode(err) != 2 {
				t.Fatalf("config errors exit with 2, got %d", errors.ExitCode(err))
			}
		})
	}
}

func TestValidateRepository(t *testing.T) {
	for _, repo := range []string{"", "kumiko", "/repo", "owner/", "a/b/c"} {
		cfg := &Config{GitHub: GitHubConfig{Repository: repo}}
		if err := cfg.ValidateRepository(); err == nil {
			t.Fatalf("ValidateRepository(%q) expected error", repo)
		}
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "notifier.yaml")
	content := `notifier: whatsapp
whatsapp:
  recipient: "8801712345678"
github:
  repository: kumiko/euphonium
  tracked_branch: release
message:
  quote_enabled: false
advisory:
  package_install: npm ci
  no_action_phrases:
    - Nothing to do.
timeouts:
  run: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TRACKED_BRANCH", "dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notifier != NotifierWhatsApp || cfg.WhatsApp.Recipient != "8801712345678" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.GitHub.TrackedBranch != "dev" {
		t.Fatalf("environment must override the file, got %q", cfg.GitHub.TrackedBranch)
	}
	if cfg.Message.QuoteEnabled {
		t.Fatal("quote_enabled: false not applied")
	}
	if cfg.Advisory.PackageInstall != "npm ci" || len(cfg.Advisory.NoActionPhrases) != 1 {
		t.Fatalf("advisory not applied: %+v", cfg.Advisory)
	}
	if cfg.Timeouts.Run != 30*time.Second {
		t.Fatalf("Run timeout = %v", cfg.Timeouts.Run)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "notifier.yaml")
	if err := os.WriteFile(path, []byte("notifer: telegram\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); !errors.HasCode(err, errors.ErrCodeConfigInvalid) {
		t.Fatalf("expected config error for unknown key, got %v", err)
	}
}
