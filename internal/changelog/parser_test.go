package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    ParsedMessage
	}{
		{
			name:    "conventional with scope",
			message: "feat(auth): add login",
			want:    ParsedMessage{Type: CategoryFeat, Scope: "auth", Desc: "add login", Raw: "feat(auth): add login"},
		},
		{
			name:    "inflected keyword is not a bounded match",
			message: "Fixed crash on startup",
			want:    ParsedMessage{Type: CategoryOthers, Desc: "Fixed crash on startup", Raw: "Fixed crash on startup"},
		},
		{
			name:    "no prefix",
			message: "random message with no prefix",
			want:    ParsedMessage{Type: CategoryOthers, Desc: "random message with no prefix", Raw: "random message with no prefix"},
		},
		{
			name:    "empty message",
			message: "",
			want:    ParsedMessage{Type: CategoryOthers},
		},
		{
			name:    "upper case keyword",
			message: "FIX: Null pointer",
			want:    ParsedMessage{Type: CategoryFix, Desc: "Null pointer", Raw: "FIX: Null pointer"},
		},
		{
			name:    "hyphen separator",
			message: "fix - handle nil",
			want:    ParsedMessage{Type: CategoryFix, Desc: "handle nil", Raw: "fix - handle nil"},
		},
		{
			name:    "whitespace separator",
			message: "docs update readme",
			want:    ParsedMessage{Type: CategoryDocs, Desc: "update readme", Raw: "docs update readme"},
		},
		{
			name:    "only first line is used",
			message: "  refactor( core ):   tidy up  \n\nlonger body mentioning feat",
			want:    ParsedMessage{Type: CategoryRefactor, Scope: "core", Desc: "tidy up", Raw: "refactor( core ):   tidy up"},
		},
		{
			name:    "keyword inside the line",
			message: "Merge branch main; fix: typo",
			want:    ParsedMessage{Type: CategoryFix, Desc: "Merge branch main; fix: typo", Raw: "Merge branch main; fix: typo"},
		},
		{
			name:    "keyword followed by space inside the line",
			message: "update perf counters",
			want:    ParsedMessage{Type: CategoryPerf, Desc: "update perf counters", Raw: "update perf counters"},
		},
		{
			name:    "keyword without description",
			message: "fix:",
			want:    ParsedMessage{Type: CategoryFix, Desc: "fix:", Raw: "fix:"},
		},
		{
			name:    "keyword as part of a longer word",
			message: "feature flag and prefix handling",
			want:    ParsedMessage{Type: CategoryOthers, Desc: "feature flag and prefix handling", Raw: "feature flag and prefix handling"},
		},
		{
			name:    "windows line endings",
			message: "chore: bump deps\r\nSigned-off-by: someone",
			want:    ParsedMessage{Type: CategoryChore, Desc: "bump deps", Raw: "chore: bump deps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMessage(tt.message))
		})
	}
}

func TestParseMessageTypeAlwaysInEnumeration(t *testing.T) {
	inputs := []string{"", "   ", "\n\n", "PERF(db)-faster queries", "wip", "docs", "123 fix"}
	for _, in := range inputs {
		assert.True(t, ParseMessage(in).Type.Valid(), "input %q", in)
	}
}
