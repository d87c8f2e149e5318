// Package plugins reports plugin version updates listed in a JSON file.
package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
	"github.com/nahidhasan98/diff-notifier/internal/models"
	"github.com/nahidhasan98/diff-notifier/internal/notify"
)

// Header opens every plugin report
const Header = "Plugin updates:"

// Load reads a JSON array of {name, version} objects
func Load(path string) ([]models.PluginUpdate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InvalidInput(err, "Failed to read plugin list")
	}

	var list []models.PluginUpdate
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, apperrors.InvalidInput(err, "Failed to parse plugin list")
	}

	return list, nil
}

// Render formats the update list as a Markdown message
func Render(list []models.PluginUpdate) string {
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, Header)
	for _, p := range list {
		lines = append(lines, fmt.Sprintf("• *%s* updated to %s", p.Name, p.Version))
	}
	return strings.Join(lines, "\n")
}

// Report loads the list at path and sends it. The notifier is not used
// when the file is unreadable or lists nothing.
func Report(ctx context.Context, n notify.Notifier, path string, log *logger.Logger) error {
	list, err := Load(path)
	if err != nil {
		return err
	}
	return send(ctx, n, list, log)
}

// send delivers the rendered list. An empty list sends nothing.
func send(ctx context.Context, n notify.Notifier, list []models.PluginUpdate, log *logger.Logger) error {
	if len(list) == 0 {
		log.Info("No plugins have been updated")
		return nil
	}

	log.Infof("Reporting %d plugin updates", len(list))
	return n.Send(ctx, Render(list), notify.ModeMarkdown)
}
