package models

// GenerateChangelogRequest is the body of a changelog generation request
type GenerateChangelogRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Notify bool   `json:"notify,omitempty"` // also publish through the delivery channel
}

// ChangelogResponse carries a generated changelog
type ChangelogResponse struct {
	Changelog string `json:"changelog"`
	Published bool   `json:"published,omitempty"`
}

// WebhookResponse is returned after a push webhook was processed
type WebhookResponse struct {
	Status    string `json:"status"`
	Changelog string `json:"changelog"`
}

// CommitsResponse lists stored commits
type CommitsResponse struct {
	Commits []StoredCommit `json:"commits"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Delivery  string `json:"delivery"` // "disabled", "connected" or "disconnected"
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
