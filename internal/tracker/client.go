// Package tracker is a read-mostly client for the external issue tracker's
// REST API. All queries are independently retryable; no call mutates case
// state in this system.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/awards-service/internal/config"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

const acceptHeader = "application/vnd.github+json"

// Client talks to the issue tracker REST API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a tracker client from configuration.
func NewClient(cfg config.TrackerConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimSuffix(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListRepos returns up to 50 repositories visible to the credential, most
// recently updated first.
func (c *Client) ListRepos(ctx context.Context) ([]Repo, error) {
	var repos []Repo
	if err := c.do(ctx, http.MethodGet, "/user/repos?sort=updated&per_page=50", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// CreateIssueParams describes a new issue.
type CreateIssueParams struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// CreateIssue opens an issue in the named repository ("owner/name").
func (c *Client) CreateIssue(ctx context.Context, repo string, params CreateIssueParams) (*Issue, error) {
	var issue Issue
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/issues", repo), params, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, repo string, number int) (*Issue, error) {
	var issue Issue
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/issues/%d", repo, number), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListTimeline returns timeline entries for an issue.
func (c *Client) ListTimeline(ctx context.Context, repo string, number int) ([]TimelineEvent, error) {
	var events []TimelineEvent
	path := fmt.Sprintf("/repos/%s/issues/%d/timeline?per_page=100", repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListComments returns comments on an issue, oldest first.
func (c *Client) ListComments(ctx context.Context, repo string, number int) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/repos/%s/issues/%d/comments?per_page=100", repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListIssueEvents returns audit events on an issue.
func (c *Client) ListIssueEvents(ctx context.Context, repo string, number int) ([]IssueEvent, error) {
	var events []IssueEvent
	path := fmt.Sprintf("/repos/%s/issues/%d/events?per_page=100", repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// RegisterWebhook subscribes the given callback URL to issue, comment,
// project-card and label events, with a pre-shared secret for signature
// verification on future deliveries.
func (c *Client) RegisterWebhook(ctx context.Context, repo, callbackURL, secret string) (*Hook, error) {
	payload := map[string]any{
		"name":   "web",
		"active": true,
		"events": []string{"issues", "issue_comment", "project_card", "label"},
		"config": map[string]any{
			"url":          callbackURL,
			"content_type": "json",
			"secret":       secret,
		},
	}
	var hook Hook
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/hooks", repo), payload, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return apperrors.NewConfigurationError("tracker API token not configured")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError("tracker API unreachable", 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("tracker API %s %s failed: %s", method, path, strings.TrimSpace(string(raw))),
			resp.StatusCode, nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode tracker response: %w", err)
	}
	return nil
}
