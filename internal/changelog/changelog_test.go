package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedGenerator() *Generator {
	return &Generator{
		Now:           func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) },
		MaxHighlights: DefaultMaxHighlights,
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	doc, err := fixedGenerator().Generate(Input{
		Repo: "acme/widgets",
		Commits: []CommitRecord{
			{Message: "feat: add X", Author: "Alice", Date: "2025-01-01"},
			{Message: "fix: bug Y", Author: "Bob", Date: "2025-01-02"},
		},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"Changelog for acme/widgets",
		"Generated on 2025-06-15",
		"",
		"Summary:",
		"- Total commits: 2. Groups: 1 feat, 1 fix.",
		"",
		"## Features",
		`1 features: "add X".`,
		"",
		"• Added: add X — by Alice on 2025-01-01",
		"",
		"## Bug fixes",
		`1 bug fixes: "bug Y".`,
		"",
		"• Fixed: bug Y — by Bob on 2025-01-02",
		"",
		"Notes:",
		"- This changelog was generated from commit messages. For richer release notes, consider adding PR descriptions or annotation in commits.",
	}, "\n")
	assert.Equal(t, want, doc)
}

func TestGenerateEmptyCommits(t *testing.T) {
	doc, err := fixedGenerator().Generate(Input{Repo: "acme/widgets"})
	require.NoError(t, err)

	var lines []string
	for _, l := range strings.Split(doc, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	assert.Equal(t, []string{"Changelog for acme/widgets", "No commits supplied in the context."}, lines)
	assert.NotContains(t, doc, "##")
	assert.NotContains(t, doc, "Summary:")
}

func TestGenerateUnknownRepo(t *testing.T) {
	doc, err := fixedGenerator().Generate(Input{
		Commits: []CommitRecord{{Message: "chore: tidy"}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "Changelog for unknown repo\n"))
	assert.Contains(t, doc, "• Performed maintenance on: tidy — by unknown on unknown date")
}

func TestGenerateIsIdempotent(t *testing.T) {
	in := Input{
		Repo: "acme/widgets",
		Commits: []CommitRecord{
			{Message: "perf(db): cache lookups", Author: "Carol", Date: "2025-02-03T04:05:06Z"},
			{Message: "Fixed crash on startup", Author: "Dan"},
			{Message: "docs: explain config", Author: "Eve", Date: "2025-02-04"},
		},
	}
	g := fixedGenerator()

	first, err := g.Generate(in)
	require.NoError(t, err)
	second, err := g.Generate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateSummaryListsOnlyNonEmptyGroups(t *testing.T) {
	doc, err := fixedGenerator().Generate(Input{
		Repo: "acme/widgets",
		Commits: []CommitRecord{
			{Message: "wip"},
			{Message: "docs: readme"},
			{Message: "another wip"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "- Total commits: 3. Groups: 1 docs, 2 others.\n")
	assert.Contains(t, doc, "## Documentation\n")
	assert.Contains(t, doc, "## Other changes\n"+`2 other changes (highlights: "wip", "another wip").`)
	assert.NotContains(t, doc, "## Features")

	// docs is rendered before others regardless of input order
	assert.Less(t, strings.Index(doc, "## Documentation"), strings.Index(doc, "## Other changes"))
}

func TestGenerateFailsOnMalformedDate(t *testing.T) {
	doc, err := fixedGenerator().Generate(Input{
		Repo:    "acme/widgets",
		Commits: []CommitRecord{{Message: "feat: x", Date: "not-a-date"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPipelineFailed)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, doc)
}

func TestGroupKeepsInputOrderAndAllKeys(t *testing.T) {
	grouped, err := Group([]CommitRecord{
		{Message: "fix: one"},
		{Message: "feat: two"},
		{Message: "fix: three"},
	})
	require.NoError(t, err)

	for _, c := range Categories() {
		_, ok := grouped[c]
		assert.True(t, ok, "missing category %s", c)
	}
	require.Len(t, grouped[CategoryFix], 2)
	assert.Equal(t, "one", grouped[CategoryFix][0].Desc)
	assert.Equal(t, "three", grouped[CategoryFix][1].Desc)
	assert.Equal(t, 3, grouped.Total())
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0] = Category("mutated")
	assert.Equal(t, CategoryFeat, Categories()[0])
}
