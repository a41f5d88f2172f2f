package changelog

import (
	"regexp"
	"strings"
)

// ParsedMessage holds the structured fields extracted from a commit subject
type ParsedMessage struct {
	Type  Category
	Scope string
	Desc  string
	Raw   string
}

var (
	// feat(scope): description
	anchoredPattern = regexp.MustCompile(`(?i)^(feat|fix|docs|chore|refactor|perf)(?:\(([^)]+)\))?[:\s-]+(.+)$`)

	// keyword anywhere in the line, bounded on the left by a word boundary
	inlinePattern = regexp.MustCompile(`(?i)\b(feat|fix|docs|chore|refactor|perf)(?:[:\s-]|\b)`)
)

// matcher tries to classify a trimmed first line
type matcher func(line string) (ParsedMessage, bool)

// matchers are evaluated in order, the first hit wins
var matchers = []matcher{
	matchAnchored,
	matchInline,
	matchFallback,
}

// ParseMessage extracts the category, scope and description from the first
// line of a commit message. It never fails.
func ParseMessage(message string) ParsedMessage {
	line := firstLine(message)
	for _, m := range matchers {
		if parsed, ok := m(line); ok {
			parsed.Raw = line
			return parsed
		}
	}
	// unreachable, matchFallback always matches
	return ParsedMessage{Type: CategoryOthers, Desc: line, Raw: line}
}

func matchAnchored(line string) (ParsedMessage, bool) {
	m := anchoredPattern.FindStringSubmatch(line)
	if m == nil {
		return ParsedMessage{}, false
	}
	return ParsedMessage{
		Type:  Category(strings.ToLower(m[1])),
		Scope: strings.TrimSpace(m[2]),
		Desc:  strings.TrimSpace(m[3]),
	}, true
}

func matchInline(line string) (ParsedMessage, bool) {
	m := inlinePattern.FindStringSubmatch(line)
	if m == nil {
		return ParsedMessage{}, false
	}
	return ParsedMessage{
		Type: Category(strings.ToLower(m[1])),
		Desc: line,
	}, true
}

func matchFallback(line string) (ParsedMessage, bool) {
	return ParsedMessage{Type: CategoryOthers, Desc: line}, true
}

func firstLine(message string) string {
	if idx := strings.Index(message, "\n"); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimSpace(message)
}
