package whatsapp

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/changelog-notifier/internal/logger"
)

func TestSplitMessageShortText(t *testing.T) {
	assert.Equal(t, []string{"Changelog for acme/widgets"}, SplitMessage("  Changelog for acme/widgets\n", 4096))
	assert.Nil(t, SplitMessage(" \n ", 4096))
}

func TestSplitMessageOnLineBoundaries(t *testing.T) {
	text := "## Features\n• one\n• two\n\n## Bug fixes\n• three"
	parts := SplitMessage(text, 20)

	require.NotEmpty(t, parts)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 20)
	}
	assert.Equal(t, []string{"## Features\n• one", "• two\n\n## Bug fixes", "• three"}, parts)
}

func TestSplitMessageCutsOverlongLine(t *testing.T) {
	text := strings.Repeat("x", 25) + "\nshort"
	parts := SplitMessage(text, 10)

	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), "xxxxx", "short"}, parts)
}

func TestSplitMessageKeepsAllContent(t *testing.T) {
	var lines []string
	for i := 0; i < 500; i++ {
		lines = append(lines, "• Added: something useful — by Alice on 2025-01-01")
	}
	text := strings.Join(lines, "\n")

	parts := SplitMessage(text, MaxMessageLength)
	require.Greater(t, len(parts), 1)

	total := 0
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), MaxMessageLength)
		total += strings.Count(p, "•")
	}
	assert.Equal(t, 500, total)
}

func TestNextInterval(t *testing.T) {
	cfg := ReconnectConfig{Multiplier: 2, MaxInterval: 30 * time.Second}
	assert.Equal(t, 10*time.Second, nextInterval(5*time.Second, cfg))
	assert.Equal(t, 30*time.Second, nextInterval(20*time.Second, cfg))
}

func TestNewClientRejectsInvalidRecipient(t *testing.T) {
	_, err := NewClient(context.Background(), Options{DSN: "file::memory:", Recipient: "alice"}, logger.Nop())
	assert.ErrorContains(t, err, "invalid recipient JID")
}
