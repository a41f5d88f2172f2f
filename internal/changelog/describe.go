package changelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	unknownAuthor = "unknown"
	unknownDate   = "unknown date"
	noMessage     = "<no message>"

	dateLayout = "2006-01-02"
)

// ErrInvalidDate is returned when a commit carries a date that is present but
// cannot be read as a point in time.
var ErrInvalidDate = errors.New("invalid commit date")

// CommitRecord is a single commit as supplied by a collaborator. Empty fields
// are treated as absent.
type CommitRecord struct {
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Item is a commit ready for display
type Item struct {
	Group  Category `json:"group"`
	Text   string   `json:"text"`
	Desc   string   `json:"desc"`
	Author string   `json:"author"`
	Date   string   `json:"date"`
	Raw    string   `json:"raw"`
	Scope  string   `json:"scope,omitempty"`
}

// accepted date layouts, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// Describe turns a commit record into a one-line sentence such as
// "Added (auth): add login — by Alice on 2025-01-01".
func Describe(rec CommitRecord) (Item, error) {
	parsed := ParseMessage(rec.Message)

	date, err := formatDate(rec.Date)
	if err != nil {
		return Item{}, err
	}

	desc := parsed.Desc
	if desc == "" {
		desc = parsed.Raw
	}
	if desc == "" {
		desc = noMessage
	}

	author := strings.TrimSpace(rec.Author)
	if author == "" {
		author = unknownAuthor
	}

	scopePart := ""
	if parsed.Scope != "" {
		scopePart = fmt.Sprintf(" (%s)", parsed.Scope)
	}

	return Item{
		Group:  parsed.Type,
		Text:   fmt.Sprintf("%s%s: %s — by %s on %s", parsed.Type.Verb(), scopePart, desc, author, date),
		Desc:   desc,
		Author: author,
		Date:   date,
		Raw:    parsed.Raw,
		Scope:  parsed.Scope,
	}, nil
}

// formatDate reduces a timestamp to its UTC calendar date
func formatDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return unknownDate, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(dateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
