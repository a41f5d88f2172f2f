package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

func openTestStore(t *testing.T) *CommitStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "commits.db") + "?_foreign_keys=on"
	s, err := Open(context.Background(), "sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceAndListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	commits := []models.StoredCommit{
		{SHA: "old", Message: "feat: first", Author: "Alice", Date: "2025-01-01T12:00:00Z"},
		{SHA: "undated", Message: "chore: no date", Author: "Bob"},
		// 2025-01-02T01:00:00+05:00 is 2025-01-01T20:00:00Z
		{SHA: "offset", Message: "fix: offset", Author: "Carol", Date: "2025-01-02T01:00:00+05:00"},
		{SHA: "new", Message: "docs: latest", Author: "Dan", Date: "2025-01-03"},
	}
	require.NoError(t, s.ReplaceCommits(ctx, "acme", "widgets", commits))

	got, err := s.ListCommits(ctx, "acme", "widgets", 50)
	require.NoError(t, err)
	require.Len(t, got, 4)

	var shas []string
	for _, c := range got {
		shas = append(shas, c.SHA)
		assert.Equal(t, "acme", c.Owner)
		assert.Equal(t, "widgets", c.Repo)
	}
	assert.Equal(t, []string{"new", "offset", "old", "undated"}, shas)
	assert.Equal(t, "2025-01-02T01:00:00+05:00", got[1].Date)
}

func TestReplaceRemovesPreviousCommits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceCommits(ctx, "acme", "widgets", []models.StoredCommit{
		{SHA: "a", Date: "2025-01-01"},
		{SHA: "b", Date: "2025-01-02"},
	}))
	require.NoError(t, s.ReplaceCommits(ctx, "acme", "gadgets", []models.StoredCommit{
		{SHA: "g", Date: "2025-01-01"},
	}))
	require.NoError(t, s.ReplaceCommits(ctx, "acme", "widgets", []models.StoredCommit{
		{SHA: "c", Date: "2025-02-01"},
	}))

	widgets, err := s.ListCommits(ctx, "acme", "widgets", 50)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, "c", widgets[0].SHA)

	gadgets, err := s.ListCommits(ctx, "acme", "gadgets", 50)
	require.NoError(t, err)
	require.Len(t, gadgets, 1)
}

func TestListRespectsLimitAndEmptyRepo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceCommits(ctx, "acme", "widgets", []models.StoredCommit{
		{SHA: "1", Date: "2025-01-01"},
		{SHA: "2", Date: "2025-01-02"},
		{SHA: "3", Date: "2025-01-03"},
	}))

	got, err := s.ListCommits(ctx, "acme", "widgets", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].SHA)

	none, err := s.ListCommits(ctx, "nobody", "nothing", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSortKey(t *testing.T) {
	assert.Equal(t, "2025-01-01T20:00:00.000000000Z", sortKey("2025-01-02T01:00:00+05:00"))
	assert.Equal(t, "2025-01-03T00:00:00.000000000Z", sortKey("2025-01-03"))
	assert.Empty(t, sortKey(""))
	assert.Empty(t, sortKey("last tuesday"))
}
