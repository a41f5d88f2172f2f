package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nahidhasan98/changelog-notifier/internal/errors"
	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

// maxWebhookBody bounds the size of a push payload
const maxWebhookBody = 5 << 20

// WebhookProvider represents different webhook providers
type WebhookProvider string

const (
	ProviderGitea  WebhookProvider = "Gitea"
	ProviderGitHub WebhookProvider = "GitHub"
)

// WebhookConfig holds configuration for webhook processing
type WebhookConfig struct {
	Provider        WebhookProvider
	SignatureHeader string
	EventHeader     string
	Secret          string
	SignaturePrefix string // e.g., "sha256=" for GitHub
}

// WebhookPayload is a push payload from any provider
type WebhookPayload interface {
	GetRepositoryName() string
	GetBranch() string
	GetCommits() []models.StoredCommit
}

// handleWebhook verifies and parses a push webhook, generates a changelog for
// the pushed commits and publishes it when delivery is configured
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request, config WebhookConfig, parsePayload func([]byte) (WebhookPayload, error)) {
	// Ping and other events carry no commits
	if event := r.Header.Get(config.EventHeader); event != "" && event != "push" {
		h.log.Infof("Ignoring %s %s event", config.Provider, event)
		h.writeJSON(w, &models.WebhookResponse{Status: "ignored"}, http.StatusOK)
		return
	}

	headerSignature := r.Header.Get(config.SignatureHeader)
	if headerSignature == "" && config.Secret != "" {
		h.log.Warnf("%s webhook received without signature header", config.Provider)
		h.writeAppError(w, errors.Unauthorized(fmt.Sprintf("Missing %s header", config.SignatureHeader)))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.writeAppError(w, errors.InvalidRequest("Failed to read request body").WithDetails(err.Error()))
		return
	}

	if !h.verifyWebhookSignature(body, headerSignature, config) {
		h.log.Warnf("Invalid %s webhook signature", config.Provider)
		h.writeAppError(w, errors.Unauthorized("Invalid webhook signature"))
		return
	}

	payload, err := parsePayload(body)
	if err != nil {
		h.writeAppError(w, errors.InvalidRequest("Invalid webhook payload").WithDetails(err.Error()))
		return
	}

	commits := payload.GetCommits()
	if len(commits) == 0 {
		h.log.Warnf("%s webhook payload has zero commits. Skipping changelog", config.Provider)
		h.writeAppError(w, errors.InvalidRequest("Webhook payload has no commits"))
		return
	}

	log := h.log.With("provider", config.Provider).
		With("repository", payload.GetRepositoryName()).
		With("branch", payload.GetBranch())
	log.Infof("Push webhook received with %d commit(s)", len(commits))

	doc, appErr := h.generate(payload.GetRepositoryName(), commits)
	if appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	status := "changelog generated"
	if h.deps.Publisher != nil {
		if err := h.deps.Publisher.PublishChangelog(r.Context(), doc); err != nil {
			h.writeAppError(w, errors.DeliveryFailed(err))
			return
		}
		status = "changelog published"
		log.Info("Push changelog published")
	}

	h.writeJSON(w, &models.WebhookResponse{Status: status, Changelog: doc}, http.StatusOK)
}

// verifyWebhookSignature verifies the HMAC SHA256 signature of the webhook payload
func (h *Handler) verifyWebhookSignature(payload []byte, headerSignature string, config WebhookConfig) bool {
	if config.Secret == "" {
		h.log.Warnf("%s webhook secret not configured, skipping signature verification", config.Provider)
		return true
	}

	providedSignature := headerSignature
	if config.SignaturePrefix != "" {
		if !strings.HasPrefix(headerSignature, config.SignaturePrefix) {
			return false
		}
		providedSignature = strings.TrimPrefix(headerSignature, config.SignaturePrefix)
	}

	mac := hmac.New(sha256.New, []byte(config.Secret))
	mac.Write(payload)
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	// Constant time comparison
	return hmac.Equal([]byte(providedSignature), []byte(expectedSignature))
}
