package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/awards-service/internal/config"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.TrackerConfig{
		Token:      "tok_test",
		APIBaseURL: server.URL,
	})
}

func TestListRepos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer tok_test", r.Header.Get("Authorization"))
		assert.Equal(t, acceptHeader, r.Header.Get("Accept"))

		json.NewEncoder(w).Encode([]Repo{
			{FullName: "awards/site"},
			{FullName: "awards/backend"},
		})
	})

	repos, err := client.ListRepos(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "awards/site", repos[0].FullName)
}

func TestCreateIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/awards/backend/issues", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var params CreateIssueParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "Review case 42", params.Title)
		assert.Equal(t, []string{"award-case"}, params.Labels)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Issue{Number: 7, Title: params.Title})
	})

	issue, err := client.CreateIssue(context.Background(), "awards/backend", CreateIssueParams{
		Title:  "Review case 42",
		Body:   "details",
		Labels: []string{"award-case"},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, issue.Number)
}

func TestGetIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/awards/backend/issues/42", r.URL.Path)
		json.NewEncoder(w).Encode(Issue{Number: 42, State: "open"})
	})

	issue, err := client.GetIssue(context.Background(), "awards/backend", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "open", issue.State)
}

func TestRegisterWebhook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/awards/backend/hooks", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "web", payload["name"])
		assert.ElementsMatch(t,
			[]any{"issues", "issue_comment", "project_card", "label"},
			payload["events"])
		cfg := payload["config"].(map[string]any)
		assert.Equal(t, "https://awards.example.com/issue-webhook", cfg["url"])
		assert.Equal(t, "hook_secret", cfg["secret"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Hook{ID: 99, Active: true})
	})

	hook, err := client.RegisterWebhook(context.Background(),
		"awards/backend", "https://awards.example.com/issue-webhook", "hook_secret")
	require.NoError(t, err)
	assert.Equal(t, int64(99), hook.ID)
}

func TestClientUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	_, err := client.GetIssue(context.Background(), "awards/backend", 1)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "UPSTREAM_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestClientMissingToken(t *testing.T) {
	client := NewClient(config.TrackerConfig{APIBaseURL: "http://localhost:0"})

	_, err := client.ListRepos(context.Background())
	require.Error(t, err)
	assert.Equal(t, "CONFIG_MISSING", apperrors.ToDomainError(err).Code)
}
