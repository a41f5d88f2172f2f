package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func items(descs ...string) []Item {
	out := make([]Item, 0, len(descs))
	for _, d := range descs {
		out = append(out, Item{Desc: d})
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		cat   Category
		max   int
		want  string
	}{
		{name: "empty group", items: nil, cat: CategoryFeat, max: 3, want: ""},
		{name: "single item", items: items("add X"), cat: CategoryFeat, max: 3, want: `1 features: "add X".`},
		{
			name:  "highlights capped",
			items: items("a", "b", "c", "d"),
			cat:   CategoryFix,
			max:   3,
			want:  `4 bug fixes (highlights: "a", "b", "c").`,
		},
		{
			name:  "non-positive max uses default",
			items: items("a", "b", "c", "d"),
			cat:   CategoryDocs,
			max:   0,
			want:  `4 documentation updates (highlights: "a", "b", "c").`,
		},
		{
			name:  "custom max",
			items: items("a", "b", "c"),
			cat:   CategoryPerf,
			max:   1,
			want:  `3 performance improvements (highlights: "a").`,
		},
		{name: "unknown category", items: items("x", "y"), cat: Category("style"), max: 3, want: `2 changes (highlights: "x", "y").`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.items, tt.cat, tt.max))
		})
	}
}

func TestTruncateHighlight(t *testing.T) {
	exact := strings.Repeat("a", 60)
	assert.Equal(t, exact, truncateHighlight(exact))

	long := strings.Repeat("b", 61)
	got := truncateHighlight(long)
	assert.Equal(t, strings.Repeat("b", 57)+"...", got)
	assert.Len(t, strings.TrimSuffix(got, "..."), 57)

	// counts runes, not bytes
	wide := strings.Repeat("é", 61)
	assert.Equal(t, strings.Repeat("é", 57)+"...", truncateHighlight(wide))
}

func TestSummarizeQuotesTruncatedHighlight(t *testing.T) {
	desc := strings.Repeat("x", 80)
	got := Summarize(items(desc), CategoryChore, 3)
	assert.Equal(t, `1 maintenance tasks: "`+strings.Repeat("x", 57)+`...".`, got)
}
