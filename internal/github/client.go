package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nahidhasan98/changelog-notifier/internal/logger"
	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

const userAgent = "changelog-notifier"

// ErrUnavailable is returned while the circuit breaker rejects calls
var ErrUnavailable = errors.New("github api temporarily unavailable")

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github api responded with status %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("github api responded with status %s", e.Status)
}

// NotFound reports whether the repository does not exist or is not visible
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Config holds the client settings
type Config struct {
	BaseURL string
	Token   string
	PerPage int
	Timeout time.Duration
}

// Client fetches commits from the GitHub REST API
type Client struct {
	baseURL    string
	token      string
	perPage    int
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// NewClient creates a GitHub client
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 50
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		perPage: cfg.PerPage,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "github",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx other than 429 do not count as failures
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < http.StatusInternalServerError && statusErr.StatusCode != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return c
}

// RecentCommits returns the most recent commits of owner/repo, newest first
func (c *Client) RecentCommits(ctx context.Context, owner, repo string) ([]models.StoredCommit, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchCommits(ctx, owner, repo)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	apiCommits := result.([]models.GitHubAPICommit)
	commits := make([]models.StoredCommit, 0, len(apiCommits))
	for _, ac := range apiCommits {
		commits = append(commits, ac.Stored(owner, repo))
	}

	c.log.Debugf("Fetched %d commits for %s/%s", len(commits), owner, repo)
	return commits, nil
}

func (c *Client) fetchCommits(ctx context.Context, owner, repo string) ([]models.GitHubAPICommit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.Itoa(c.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call github: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, readStatusError(resp)
	}

	var commits []models.GitHubAPICommit
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}
	return commits, nil
}

func readStatusError(resp *http.Response) error {
	statusErr := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		statusErr.Message = parsed.Message
	}
	return statusErr
}
