package models

import "github.com/nahidhasan98/changelog-notifier/internal/changelog"

// StoredCommit is a commit persisted for a repository
type StoredCommit struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Record converts the stored commit into pipeline input
func (c StoredCommit) Record() changelog.CommitRecord {
	return changelog.CommitRecord{
		Message: c.Message,
		Author:  c.Author,
		Date:    c.Date,
	}
}

// Records converts commits into pipeline input, keeping order
func Records(commits []StoredCommit) []changelog.CommitRecord {
	records := make([]changelog.CommitRecord, len(commits))
	for i, c := range commits {
		records[i] = c.Record()
	}
	return records
}
