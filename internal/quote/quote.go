// Package quote fetches the decorative quote appended to notifications.
package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint serves a random quote as plain text
	DefaultEndpoint = "https://v1.hitokoto.cn/?encode=text"

	// Separator is the line placed above the quote
	Separator = "———"

	maxBodySize = 4 << 10
)

// Fetcher retrieves a quote from a third-party endpoint
type Fetcher struct {
	endpoint string
	client   *http.Client
}

// New creates a fetcher. Empty endpoint selects DefaultEndpoint, nil client
// an http.Client with a short timeout.
func New(endpoint string, client *http.Client) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{endpoint: endpoint, client: client}
}

// Fetch issues a single GET and returns the trimmed quote below Separator.
// Any error is meant to be absorbed by the caller.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("quote request failed with status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("quote response is empty")
	}

	return Separator + "\n" + text, nil
}
