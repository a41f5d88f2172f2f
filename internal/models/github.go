package models

import "strings"

// GitHubWebhookPayload represents the GitHub push webhook payload
type GitHubWebhookPayload struct {
	Ref        string           `json:"ref"`
	Before     string           `json:"before"`
	After      string           `json:"after"`
	Compare    string           `json:"compare"`
	Commits    []GitHubCommit   `json:"commits"`
	Repository GitHubRepository `json:"repository"`
	Pusher     GitHubPusher     `json:"pusher"`
	Deleted    bool             `json:"deleted"`
	Forced     bool             `json:"forced"`
}

// GitHubCommit represents a commit in the GitHub webhook
type GitHubCommit struct {
	ID        string           `json:"id"`
	Distinct  bool             `json:"distinct"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
	URL       string           `json:"url"`
	Author    GitHubCommitUser `json:"author"`
	Committer GitHubCommitUser `json:"committer"`
}

// GitHubCommitUser represents a user in a commit
type GitHubCommitUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// GitHubRepository represents a repository in the GitHub webhook
type GitHubRepository struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Private       bool       `json:"private"`
	Owner         GitHubUser `json:"owner"`
	HTMLURL       string     `json:"html_url"`
	DefaultBranch string     `json:"default_branch"`
}

// GitHubUser represents a user in the GitHub webhook
type GitHubUser struct {
	Login string `json:"login"`
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// GitHubPusher represents the pusher in the GitHub webhook
type GitHubPusher struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetRepositoryName returns the full repository name
func (p GitHubWebhookPayload) GetRepositoryName() string {
	return p.Repository.FullName
}

// GetOwner returns the repository owner login
func (p GitHubWebhookPayload) GetOwner() string {
	if p.Repository.Owner.Login != "" {
		return p.Repository.Owner.Login
	}
	owner, _, _ := strings.Cut(p.Repository.FullName, "/")
	return owner
}

// GetRepo returns the repository name without owner
func (p GitHubWebhookPayload) GetRepo() string {
	return p.Repository.Name
}

// GetBranch returns the branch name without refs/heads/ prefix
func (p GitHubWebhookPayload) GetBranch() string {
	return strings.TrimPrefix(p.Ref, "refs/heads/")
}

// GetCommits returns the pushed commits in push order
func (p GitHubWebhookPayload) GetCommits() []StoredCommit {
	commits := make([]StoredCommit, 0, len(p.Commits))
	for _, c := range p.Commits {
		commits = append(commits, StoredCommit{
			Owner:   p.GetOwner(),
			Repo:    p.GetRepo(),
			SHA:     c.ID,
			Message: c.Message,
			Author:  c.Author.Name,
			Date:    c.Timestamp,
		})
	}
	return commits
}

// GitHubAPICommit is an entry of the GitHub REST "list commits" response
type GitHubAPICommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string           `json:"message"`
		Author  *GitHubAPIAuthor `json:"author"`
	} `json:"commit"`
}

// GitHubAPIAuthor is the git author of a REST API commit
type GitHubAPIAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// Stored converts the API commit into a stored commit for owner/repo
func (c GitHubAPICommit) Stored(owner, repo string) StoredCommit {
	sc := StoredCommit{
		Owner:   owner,
		Repo:    repo,
		SHA:     c.SHA,
		Message: c.Commit.Message,
	}
	if c.Commit.Author != nil {
		sc.Author = c.Commit.Author.Name
		sc.Date = c.Commit.Author.Date
	}
	return sc
}
