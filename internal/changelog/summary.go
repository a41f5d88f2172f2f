package changelog

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxHighlights is the number of items quoted in a group summary
	DefaultMaxHighlights = 3

	highlightLimit  = 60
	highlightCutoff = 57
)

// Summarize builds the highlight sentence for one group. It returns an empty
// string when the group has no items.
func Summarize(items []Item, c Category, maxHighlights int) string {
	if len(items) == 0 {
		return ""
	}
	if maxHighlights <= 0 {
		maxHighlights = DefaultMaxHighlights
	}

	top := items
	if len(top) > maxHighlights {
		top = top[:maxHighlights]
	}

	highlights := make([]string, 0, len(top))
	for _, it := range top {
		highlights = append(highlights, `"`+truncateHighlight(it.Desc)+`"`)
	}
	joined := strings.Join(highlights, ", ")

	if len(items) == 1 {
		return fmt.Sprintf("1 %s: %s.", c.Noun(), joined)
	}
	return fmt.Sprintf("%d %s (highlights: %s).", len(items), c.Noun(), joined)
}

// truncateHighlight shortens descriptions longer than 60 runes to 57 runes
// followed by an ellipsis
func truncateHighlight(desc string) string {
	runes := []rune(desc)
	if len(runes) <= highlightLimit {
		return desc
	}
	return string(runes[:highlightCutoff]) + "..."
}
