package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the longest text sent in a single message
const MaxMessageLength = 4096

// PublishChangelog sends a changelog to the configured recipient, split into
// as many messages as needed
func (c *Client) PublishChangelog(ctx context.Context, text string) error {
	if err := c.EnsureConnected(ctx); err != nil {
		return fmt.Errorf("whatsapp not connected: %w", err)
	}

	parts := SplitMessage(text, MaxMessageLength)
	for i, part := range parts {
		if err := c.sendText(ctx, c.recipient, part); err != nil {
			return fmt.Errorf("part %d/%d: %w", i+1, len(parts), err)
		}
	}

	c.log.Infof("Changelog published to %s in %d message(s)", c.recipient.String(), len(parts))
	return nil
}

// Status reports the delivery state for health checks
func (c *Client) Status() string {
	if c.IsConnected() {
		return "connected"
	}
	return "disconnected"
}

// SplitMessage breaks text into chunks of at most limit runes. Chunks end on
// line boundaries when possible; a single line longer than limit is cut.
func SplitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		parts   []string
		current strings.Builder
		size    int
	)

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			parts = append(parts, chunk)
		}
		current.Reset()
		size = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		current.WriteString(line)
		size += n
	}
	flush()

	return parts
}
