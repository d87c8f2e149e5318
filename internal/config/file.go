package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// fileConfig mirrors Config in the optional YAML file. Empty fields fall
// back to built-in defaults; environment variables override everything.
type fileConfig struct {
	Notifier string `yaml:"notifier"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		APIURL   string `yaml:"api_url"`
	} `yaml:"telegram"`

	WhatsApp struct {
		Recipient  string `yaml:"recipient"`
		LogLevel   string `yaml:"log_level"`
		DeviceName string `yaml:"device_name"`
	} `yaml:"whatsapp"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	GitHub struct {
		Repository    string `yaml:"repository"`
		Token         string `yaml:"token"`
		APIURL        string `yaml:"api_url"`
		ServerURL     string `yaml:"server_url"`
		TrackedBranch string `yaml:"tracked_branch"`
		DefaultHead   string `yaml:"default_head"`
	} `yaml:"github"`

	Message struct {
		Mode             string `yaml:"mode"`
		CommitLinks      *bool  `yaml:"commit_links"`
		QuoteEnabled     *bool  `yaml:"quote_enabled"`
		QuoteEndpoint    string `yaml:"quote_endpoint"`
		ArtifactWorkflow string `yaml:"artifact_workflow"`
		ArtifactBranch   string `yaml:"artifact_branch"`
	} `yaml:"message"`

	Advisory struct {
		PackageInstall    string   `yaml:"package_install"`
		AssetBuild        string   `yaml:"asset_build"`
		DependencyInstall string   `yaml:"dependency_install"`
		Migrate           string   `yaml:"migrate"`
		NoActionPhrases   []string `yaml:"no_action_phrases"`
	} `yaml:"advisory"`

	Timeouts struct {
		HTTP string `yaml:"http"`
		Run  string `yaml:"run"`
	} `yaml:"timeouts"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// loadFile decodes a YAML config file, rejecting unknown keys
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}

	for field, value := range map[string]string{"timeouts.http": f.Timeouts.HTTP, "timeouts.run": f.Timeouts.Run} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
	}

	return &f, nil
}
