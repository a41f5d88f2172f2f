package models

import "strings"

// GiteaWebhookPayload represents the Gitea push webhook payload
type GiteaWebhookPayload struct {
	Ref        string          `json:"ref"`
	Before     string          `json:"before"`
	After      string          `json:"after"`
	CompareURL string          `json:"compare_url"`
	Commits    []GiteaCommit   `json:"commits"`
	Repository GiteaRepository `json:"repository"`
	Pusher     GiteaUser       `json:"pusher"`
}

// GiteaCommit represents a commit in the Gitea webhook
type GiteaCommit struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	URL       string    `json:"url"`
	Author    GiteaUser `json:"author"`
	Committer GiteaUser `json:"committer"`
	Timestamp string    `json:"timestamp"`
}

// GiteaRepository represents a repository in the Gitea webhook
type GiteaRepository struct {
	ID            int       `json:"id"`
	Owner         GiteaUser `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	HTMLURL       string    `json:"html_url"`
	DefaultBranch string    `json:"default_branch"`
}

// GiteaUser represents a user in the Gitea webhook
type GiteaUser struct {
	ID       int    `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// GetRepositoryName returns the full repository name
func (p GiteaWebhookPayload) GetRepositoryName() string {
	return p.Repository.FullName
}

// GetOwner returns the repository owner
func (p GiteaWebhookPayload) GetOwner() string {
	if owner := p.Repository.Owner.Login; owner != "" {
		return owner
	}
	if owner := p.Repository.Owner.Username; owner != "" {
		return owner
	}
	owner, _, _ := strings.Cut(p.Repository.FullName, "/")
	return owner
}

// GetRepo returns the repository name without owner
func (p GiteaWebhookPayload) GetRepo() string {
	return p.Repository.Name
}

// GetBranch returns the branch name without refs/heads/ prefix
func (p GiteaWebhookPayload) GetBranch() string {
	return strings.TrimPrefix(p.Ref, "refs/heads/")
}

// GetCommits returns the pushed commits in push order
func (p GiteaWebhookPayload) GetCommits() []StoredCommit {
	commits := make([]StoredCommit, 0, len(p.Commits))
	for _, c := range p.Commits {
		author := c.Author.Name
		if author == "" {
			author = c.Author.Username
		}
		commits = append(commits, StoredCommit{
			Owner:   p.GetOwner(),
			Repo:    p.GetRepo(),
			SHA:     c.ID,
			Message: c.Message,
			Author:  author,
			Date:    c.Timestamp,
		})
	}
	return commits
}
