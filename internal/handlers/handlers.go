package handlers

import (
	"context"

	"github.com/nahidhasan98/changelog-notifier/internal/changelog"
	"github.com/nahidhasan98/changelog-notifier/internal/logger"
	"github.com/nahidhasan98/changelog-notifier/internal/models"
	"github.com/nahidhasan98/changelog-notifier/internal/validation"
)

// CommitSource fetches the recent commits of a repository
type CommitSource interface {
	RecentCommits(ctx context.Context, owner, repo string) ([]models.StoredCommit, error)
}

// CommitStore persists fetched commits
type CommitStore interface {
	ReplaceCommits(ctx context.Context, owner, repo string, commits []models.StoredCommit) error
	ListCommits(ctx context.Context, owner, repo string, limit int) ([]models.StoredCommit, error)
	Ping(ctx context.Context) error
}

// Publisher delivers generated changelogs
type Publisher interface {
	PublishChangelog(ctx context.Context, text string) error
	Status() string
}

// Dependencies groups what the handlers need. Publisher may be nil when
// delivery is disabled.
type Dependencies struct {
	Source    CommitSource
	Store     CommitStore
	Publisher Publisher
	Generator *changelog.Generator

	MaxCommits int // commits fed to one changelog
	ListLimit  int // default size of the commits listing

	GitHubSecret string
	GiteaSecret  string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	deps      Dependencies
	log       *logger.Logger
	validator *validation.Validator
}

// New creates a new handler instance
func New(deps Dependencies, log *logger.Logger) *Handler {
	if deps.Generator == nil {
		deps.Generator = changelog.NewGenerator()
	}
	if deps.MaxCommits <= 0 {
		deps.MaxCommits = 30
	}
	if deps.ListLimit <= 0 {
		deps.ListLimit = 50
	}

	return &Handler{
		deps:      deps,
		log:       log,
		validator: validation.New(),
	}
}
