package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nahidhasan98/changelog-notifier/internal/errors"
	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

// GenerateChangelog fetches the recent commits of a repository, stores them
// and returns the generated changelog
func (h *Handler) GenerateChangelog(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateChangelogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, errors.InvalidRequest("Invalid request body").WithDetails(err.Error()))
		return
	}

	if appErr := h.validator.ValidateGenerateRequest(&req); appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	if req.Notify && h.deps.Publisher == nil {
		h.writeAppError(w, errors.ValidationError("Changelog delivery is not configured"))
		return
	}

	ctx := r.Context()
	log := h.log.With("owner", req.Owner).With("repo", req.Repo)

	commits, err := h.deps.Source.RecentCommits(ctx, req.Owner, req.Repo)
	if err != nil {
		h.writeAppError(w, upstreamError(err))
		return
	}

	// Generation does not depend on the stored copy
	if err := h.deps.Store.ReplaceCommits(ctx, req.Owner, req.Repo, commits); err != nil {
		log.WarnErr("Failed to store commits", err)
	}

	doc, appErr := h.generate(req.Owner+"/"+req.Repo, commits)
	if appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	response := &models.ChangelogResponse{Changelog: doc}

	if req.Notify {
		if err := h.deps.Publisher.PublishChangelog(ctx, doc); err != nil {
			h.writeAppError(w, errors.DeliveryFailed(err))
			return
		}
		response.Published = true
	}

	log.Infof("Changelog generated from %d commits", len(commits))
	h.writeJSON(w, response, http.StatusOK)
}

// ListCommits returns the stored commits of a repository, newest first
func (h *Handler) ListCommits(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, repo := vars["owner"], vars["repo"]

	if appErr := h.validator.ValidateRepository(owner, repo); appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	limit, appErr := h.validator.ParseLimit(r.URL.Query().Get("limit"), h.deps.ListLimit)
	if appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	commits, err := h.deps.Store.ListCommits(r.Context(), owner, repo, limit)
	if err != nil {
		h.writeAppError(w, errors.DatabaseError(err))
		return
	}

	h.writeJSON(w, &models.CommitsResponse{Commits: commits}, http.StatusOK)
}
