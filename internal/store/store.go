package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS commits (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	owner    TEXT NOT NULL,
	repo     TEXT NOT NULL,
	sha      TEXT NOT NULL,
	message  TEXT NOT NULL DEFAULT '',
	author   TEXT NOT NULL DEFAULT '',
	date     TEXT NOT NULL DEFAULT '',
	sort_key TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_commits_owner_repo ON commits(owner, repo);
`

// CommitStore persists fetched commits per repository
type CommitStore struct {
	db *sql.DB
}

// Open opens the database and ensures the schema exists
func Open(ctx context.Context, driver, dsn string) (*CommitStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &CommitStore{db: db}, nil
}

// Close closes the underlying database
func (s *CommitStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *CommitStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ReplaceCommits swaps the stored commits of owner/repo for commits in a
// single transaction
func (s *CommitStore) ReplaceCommits(ctx context.Context, owner, repo string, commits []models.StoredCommit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM commits WHERE owner = ? AND repo = ?`, owner, repo); err != nil {
		return fmt.Errorf("failed to delete commits for %s/%s: %w", owner, repo, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO commits (owner, repo, sha, message, author, date, sort_key, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range commits {
		if _, err := stmt.ExecContext(ctx, owner, repo, c.SHA, c.Message, c.Author, c.Date, sortKey(c.Date), i); err != nil {
			return fmt.Errorf("failed to insert commit %s: %w", c.SHA, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListCommits returns up to limit stored commits of owner/repo, newest first.
// Commits without a readable date sort last, ties keep their fetch order.
func (s *CommitStore) ListCommits(ctx context.Context, owner, repo string, limit int) ([]models.StoredCommit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, repo, sha, message, author, date
		FROM commits
		WHERE owner = ? AND repo = ?
		ORDER BY sort_key = '' ASC, sort_key DESC, position ASC
		LIMIT ?`, owner, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query commits for %s/%s: %w", owner, repo, err)
	}
	defer rows.Close()

	commits := make([]models.StoredCommit, 0)
	for rows.Next() {
		var c models.StoredCommit
		if err := rows.Scan(&c.Owner, &c.Repo, &c.SHA, &c.Message, &c.Author, &c.Date); err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}
		commits = append(commits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commits: %w", err)
	}

	return commits, nil
}

// sortKey normalizes a commit date to UTC so that offsets compare correctly.
// Unreadable dates get an empty key.
func sortKey(date string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
		}
	}
	return ""
}
