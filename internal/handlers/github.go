package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

// GitHubWebhook handles GitHub push webhooks
func (h *Handler) GitHubWebhook(w http.ResponseWriter, r *http.Request) {
	config := WebhookConfig{
		Provider:        ProviderGitHub,
		SignatureHeader: "X-Hub-Signature-256",
		EventHeader:     "X-GitHub-Event",
		Secret:          h.deps.GitHubSecret,
		SignaturePrefix: "sha256=",
	}

	parsePayload := func(body []byte) (WebhookPayload, error) {
		var payload models.GitHubWebhookPayload
		err := json.Unmarshal(body, &payload)
		return payload, err
	}

	h.handleWebhook(w, r, config, parsePayload)
}
