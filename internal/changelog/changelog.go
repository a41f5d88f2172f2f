// Package changelog turns commit records into a categorized plain-text
// changelog: messages are parsed into category, scope and description,
// described as sentences, grouped, summarized and rendered.
package changelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrPipelineFailed signals that no document could be produced
var ErrPipelineFailed = errors.New("changelog pipeline failed")

// Input carries what a single changelog is generated from
type Input struct {
	Repo    string         `json:"repo"`
	Commits []CommitRecord `json:"commits"`
}

// Generator runs the changelog pipeline
type Generator struct {
	// Now supplies the generation timestamp
	Now func() time.Time

	// MaxHighlights caps the quoted descriptions per group summary
	MaxHighlights int
}

// NewGenerator creates a generator backed by the wall clock
func NewGenerator() *Generator {
	return &Generator{
		Now:           time.Now,
		MaxHighlights: DefaultMaxHighlights,
	}
}

// Generate produces the changelog document for in. On failure it returns an
// error wrapping ErrPipelineFailed and no text.
func (g *Generator) Generate(in Input) (doc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = ""
			err = fmt.Errorf("%w: %v", ErrPipelineFailed, r)
		}
	}()

	repo := strings.TrimSpace(in.Repo)
	if repo == "" {
		repo = unknownRepo
	}

	if len(in.Commits) == 0 {
		return RenderEmpty(repo), nil
	}

	grouped, err := Group(in.Commits)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPipelineFailed, err)
	}

	return Render(repo, grouped, len(in.Commits), g.now(), g.MaxHighlights), nil
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}
