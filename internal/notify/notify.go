// Package notify delivers finished messages to a chat channel.
package notify

import "context"

// Mode is the rendering mode of a message
type Mode string

const (
	ModeHTML     Mode = "HTML"
	ModeMarkdown Mode = "Markdown"
)

// Notifier delivers one message and reports whether the channel accepted it
type Notifier interface {
	Send(ctx context.Context, text string, mode Mode) error
}

// sendAsync runs fn and returns early when ctx ends first. Clients without
// context support keep running until their own HTTP timeout.
func sendAsync(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
