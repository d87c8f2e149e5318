package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/models"
)

// Notifier backends
const (
	NotifierTelegram = "telegram"
	NotifierWhatsApp = "whatsapp"
)

// Config holds the application configuration
type Config struct {
	// Notifier selects the chat backend: telegram or whatsapp
	Notifier string

	// Telegram configuration
	Telegram TelegramConfig

	// WhatsApp configuration
	WhatsApp WhatsAppConfig

	// Database configuration for the WhatsApp session store
	Database DatabaseConfig

	// GitHub configuration
	GitHub GitHubConfig

	// Message composition configuration
	Message MessageConfig

	// Advisory commands and phrases
	Advisory AdvisoryConfig

	// Timeouts for outbound calls and the whole run
	Timeouts TimeoutConfig

	// Logging configuration
	Log LogConfig
}

// TelegramConfig holds Telegram-specific configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
}

// WhatsAppConfig holds WhatsApp-specific configuration
type WhatsAppConfig struct {
	Recipient  string // JID or phone number that receives notifications
	LogLevel   string
	DeviceName string // Custom device name that appears in WhatsApp linked devices
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// GitHubConfig holds repository access configuration
type GitHubConfig struct {
	Repository    string // owner/repo
	Token         string
	APIURL        string
	ServerURL     string
	TrackedBranch string
	DefaultHead   string
}

// MessageConfig holds what goes into the composed message
type MessageConfig struct {
	Mode             models.MessageMode
	CommitLinks      bool
	QuoteEnabled     bool
	QuoteEndpoint    string
	ArtifactWorkflow string
	ArtifactBranch   string
}

// AdvisoryConfig overrides the advisory commands and the no-action phrases
type AdvisoryConfig struct {
	PackageInstall    string
	AssetBuild        string
	DependencyInstall string
	Migrate           string
	NoActionPhrases   []string
}

// TimeoutConfig holds time limits
type TimeoutConfig struct {
	HTTP time.Duration
	Run  time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the optional CONFIG_FILE and environment
// variables. Environment variables win over the file.
func Load() (*Config, error) {
	// Try to load .env file (ignore errors - it's optional)
	_ = godotenv.Load(".env")

	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := loadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeConfigInvalid, "failed to load config file %s", path)
		}
		file = *f
	}

	trackedBranch := getEnv("TRACKED_BRANCH", or(file.GitHub.TrackedBranch, "dev"))

	cfg := &Config{
		Notifier: strings.ToLower(getEnv("NOTIFIER", or(file.Notifier, NotifierTelegram))),
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", file.Telegram.BotToken),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", file.Telegram.ChatID),
			APIURL:   getEnv("TELEGRAM_API_URL", or(file.Telegram.APIURL, "https://api.telegram.org")),
		},
		WhatsApp: WhatsAppConfig{
			Recipient:  getEnv("WHATSAPP_RECIPIENT", file.WhatsApp.Recipient),
			LogLevel:   getEnv("WHATSAPP_LOG_LEVEL", or(file.WhatsApp.LogLevel, "WARN")),
			DeviceName: getEnv("WHATSAPP_DEVICE_NAME", or(file.WhatsApp.DeviceName, "diff-notifier")),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", or(file.Database.Driver, "sqlite3")),
			DSN:    getEnv("DB_DSN", or(file.Database.DSN, "file:whatsapp.db?_foreign_keys=on")),
		},
		GitHub: GitHubConfig{
			Repository:    getEnv("GITHUB_REPOSITORY", file.GitHub.Repository),
			Token:         getEnv("GITHUB_TOKEN", file.GitHub.Token),
			APIURL:        getEnv("GITHUB_API_URL", or(file.GitHub.APIURL, "https://api.github.com/")),
			ServerURL:     getEnv("GITHUB_SERVER_URL", or(file.GitHub.ServerURL, "https://github.com")),
			TrackedBranch: trackedBranch,
			DefaultHead:   getEnv("DEFAULT_HEAD", or(file.GitHub.DefaultHead, "HEAD")),
		},
		Message: MessageConfig{
			Mode:             models.MessageMode(getEnv("COMMIT_MESSAGE_MODE", or(file.Message.Mode, string(models.MessageFirstLine)))),
			CommitLinks:      getEnvAsBool("COMMIT_LINKS", boolOr(file.Message.CommitLinks, false)),
			QuoteEnabled:     getEnvAsBool("QUOTE_ENABLED", boolOr(file.Message.QuoteEnabled, true)),
			QuoteEndpoint:    getEnv("QUOTE_ENDPOINT", file.Message.QuoteEndpoint),
			ArtifactWorkflow: getEnv("ARTIFACT_WORKFLOW", file.Message.ArtifactWorkflow),
			ArtifactBranch:   getEnv("ARTIFACT_BRANCH", or(file.Message.ArtifactBranch, trackedBranch)),
		},
		Advisory: AdvisoryConfig{
			PackageInstall:    file.Advisory.PackageInstall,
			AssetBuild:        file.Advisory.AssetBuild,
			DependencyInstall: file.Advisory.DependencyInstall,
			Migrate:           file.Advisory.Migrate,
			NoActionPhrases:   file.Advisory.NoActionPhrases,
		},
		Timeouts: TimeoutConfig{
			HTTP: getEnvAsDuration("HTTP_TIMEOUT", durationOr(file.Timeouts.HTTP, 10*time.Second)),
			Run:  getEnvAsDuration("RUN_TIMEOUT", durationOr(file.Timeouts.Run, 60*time.Second)),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", or(file.Log.Level, "info")),
			Format: getEnv("LOG_FORMAT", or(file.Log.Format, "text")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every action depends on
func (c *Config) Validate() error {
	switch c.Notifier {
	case NotifierTelegram:
	case NotifierWhatsApp:
		if c.Database.Driver == "" {
			return errors.ConfigInvalid("database driver is required")
		}
		if c.Database.DSN == "" {
			return errors.ConfigInvalid("database DSN is required")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown notifier %q (want telegram or whatsapp)", c.Notifier))
	}

	if !c.Message.Mode.Valid() {
		return errors.ConfigInvalid(fmt.Sprintf("invalid commit message mode %q", c.Message.Mode))
	}

	if c.Timeouts.HTTP <= 0 || c.Timeouts.Run <= 0 {
		return errors.ConfigInvalid("timeouts must be positive")
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.ConfigInvalid(fmt.Sprintf("invalid log format %q", c.Log.Format))
	}

	return nil
}

// ValidateNotifier checks that the selected notifier can deliver a message
func (c *Config) ValidateNotifier() error {
	switch c.Notifier {
	case NotifierWhatsApp:
		if c.WhatsApp.Recipient == "" {
			return errors.ConfigInvalid("WHATSAPP_RECIPIENT is required")
		}
	default:
		if c.Telegram.BotToken == "" {
			return errors.ConfigInvalid("TELEGRAM_BOT_TOKEN is required")
		}
		if c.Telegram.ChatID == "" {
			return errors.ConfigInvalid("TELEGRAM_CHAT_ID is required")
		}
	}
	return nil
}

// ValidateRepository checks the repository settings the diff action needs
func (c *Config) ValidateRepository() error {
	owner, repo, ok := strings.Cut(c.GitHub.Repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return errors.ConfigInvalid(fmt.Sprintf("GITHUB_REPOSITORY must be owner/repo, got %q", c.GitHub.Repository))
	}
	return nil
}

// CommitLinkBase returns the web URL commit ids link to, or "" when links are off
func (c *Config) CommitLinkBase() string {
	if !c.Message.CommitLinks {
		return ""
	}
	return strings.TrimRight(c.GitHub.ServerURL, "/") + "/" + c.GitHub.Repository
}

// Helper functions to get environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func or(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func boolOr(value *bool, defaultValue bool) bool {
	if value != nil {
		return *value
	}
	return defaultValue
}

func durationOr(value string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
