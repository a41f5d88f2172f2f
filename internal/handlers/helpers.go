package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/nahidhasan98/changelog-notifier/internal/changelog"
	"github.com/nahidhasan98/changelog-notifier/internal/errors"
	"github.com/nahidhasan98/changelog-notifier/internal/github"
	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("Failed to encode JSON response", err)
	}
}

// writeAppError writes an application error response
func (h *Handler) writeAppError(w http.ResponseWriter, appErr *errors.AppError) {
	response := &models.ErrorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Details: appErr.Details,
	}

	// Log the error for internal monitoring
	h.log.With("error_code", appErr.Code).
		With("status_code", appErr.StatusCode).
		Error(appErr.Message, appErr.Err)

	h.writeJSON(w, response, appErr.StatusCode)
}

// generate runs the pipeline over the first MaxCommits commits
func (h *Handler) generate(repoName string, commits []models.StoredCommit) (string, *errors.AppError) {
	if len(commits) > h.deps.MaxCommits {
		commits = commits[:h.deps.MaxCommits]
	}

	doc, err := h.deps.Generator.Generate(changelog.Input{
		Repo:    repoName,
		Commits: models.Records(commits),
	})
	if err != nil {
		return "", errors.PipelineFailed(err)
	}
	return doc, nil
}

// upstreamError maps commit source failures to application errors
func upstreamError(err error) *errors.AppError {
	var statusErr *github.StatusError
	switch {
	case stderrors.Is(err, github.ErrUnavailable):
		return errors.UpstreamUnavailable(err)
	case stderrors.As(err, &statusErr) && statusErr.NotFound():
		appErr := errors.NotFound("Repository not found")
		appErr.Err = err
		return appErr
	default:
		return errors.UpstreamFailed(err)
	}
}
