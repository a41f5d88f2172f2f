package changelog

import (
	"fmt"
	"strings"
	"time"
)

const (
	unknownRepo = "unknown repo"

	notesText = "Notes:\n- This changelog was generated from commit messages. For richer release notes, consider adding PR descriptions or annotation in commits.\n"
)

// RenderEmpty returns the document produced when no commits were supplied
func RenderEmpty(repo string) string {
	return fmt.Sprintf("Changelog for %s\n\nNo commits supplied in the context.", repo)
}

// Render assembles the changelog document from grouped items. total is the
// number of commits the document was generated from.
func Render(repo string, grouped Grouped, total int, generated time.Time, maxHighlights int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Changelog for %s\n", repo))
	sb.WriteString(fmt.Sprintf("Generated on %s\n\n", generated.UTC().Format(dateLayout)))

	counts := make([]string, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		if n := len(grouped[c]); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, c))
		}
	}
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("- Total commits: %d. Groups: %s.\n\n", total, strings.Join(counts, ", ")))

	for _, c := range categoryOrder {
		items := grouped[c]
		if len(items) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("## %s\n", c.Title()))
		if summary := Summarize(items, c, maxHighlights); summary != "" {
			sb.WriteString(summary + "\n\n")
		}
		for _, it := range items {
			sb.WriteString("• " + it.Text + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(notesText)

	return strings.TrimSpace(sb.String())
}
