package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/config"
	"github.com/spec-kit/awards-service/internal/tracker"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

const (
	maxComments      = 5
	maxCommentLength = 200
	maxRecentEvents  = 10
)

// branchNamePattern matches branch-name-shaped tokens (word separated by
// -, _ or /). Best-effort annotation, not authoritative.
var branchNamePattern = regexp.MustCompile(`\b[A-Za-z0-9]+[-_/][A-Za-z0-9][A-Za-z0-9./_-]*`)

// TrackerAPI is the slice of the tracker client the admin adapter uses.
type TrackerAPI interface {
	ListRepos(ctx context.Context) ([]tracker.Repo, error)
	CreateIssue(ctx context.Context, repo string, params tracker.CreateIssueParams) (*tracker.Issue, error)
	GetIssue(ctx context.Context, repo string, number int) (*tracker.Issue, error)
	ListTimeline(ctx context.Context, repo string, number int) ([]tracker.TimelineEvent, error)
	ListComments(ctx context.Context, repo string, number int) ([]tracker.Comment, error)
	ListIssueEvents(ctx context.Context, repo string, number int) ([]tracker.IssueEvent, error)
	RegisterWebhook(ctx context.Context, repo, callbackURL, secret string) (*tracker.Hook, error)
}

// TrackerService exposes the read-only admin tooling over the issue tracker.
type TrackerService struct {
	client TrackerAPI
	cfg    config.TrackerConfig
	logger *zap.Logger
}

// NewTrackerService constructs the service.
func NewTrackerService(client TrackerAPI, cfg config.TrackerConfig, logger *zap.Logger) *TrackerService {
	return &TrackerService{client: client, cfg: cfg, logger: logger}
}

// CommitRef is a commit linked to an issue through its timeline.
type CommitRef struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// CrossRef is an issue or PR that referenced this issue.
type CrossRef struct {
	Number        int    `json:"number"`
	Title         string `json:"title"`
	State         string `json:"state"`
	URL           string `json:"url"`
	IsPullRequest bool   `json:"is_pull_request"`
}

// EventSummary is one recent audit event on an issue.
type EventSummary struct {
	Event     string    `json:"event"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Label     string    `json:"label,omitempty"`
}

// CommentSummary is a truncated recent comment.
type CommentSummary struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueActivity aggregates an issue with its derived views.
type IssueActivity struct {
	Issue        *tracker.Issue   `json:"issue"`
	Commits      []CommitRef      `json:"commits"`
	CrossRefs    []CrossRef       `json:"cross_references"`
	BranchNames  []string         `json:"branch_names"`
	RecentEvents []EventSummary   `json:"recent_events"`
	Comments     []CommentSummary `json:"comments"`
}

// ListRepos returns repositories visible to the configured credential.
func (s *TrackerService) ListRepos(ctx context.Context) ([]tracker.Repo, error) {
	return s.client.ListRepos(ctx)
}

// CreateIssue opens an issue, defaulting to the configured repository.
func (s *TrackerService) CreateIssue(ctx context.Context, repo, title, body string, labels []string) (*tracker.Issue, error) {
	repo = s.resolveRepo(repo)
	if repo == "" {
		return nil, apperrors.NewValidationError("repository required", nil)
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	return s.client.CreateIssue(ctx, repo, tracker.CreateIssueParams{Title: title, Body: body, Labels: labels})
}

// IssueActivity fetches an issue plus derived views. The issue fetch is
// primary; each sub-fetch degrades to an empty collection on failure rather
// than aborting the whole read.
func (s *TrackerService) IssueActivity(ctx context.Context, repo string, number int) (*IssueActivity, error) {
	repo = s.resolveRepo(repo)
	if repo == "" {
		return nil, apperrors.NewValidationError("repository required", nil)
	}

	issue, err := s.client.GetIssue(ctx, repo, number)
	if err != nil {
		return nil, err
	}

	activity := &IssueActivity{
		Issue:        issue,
		Commits:      []CommitRef{},
		CrossRefs:    []CrossRef{},
		BranchNames:  []string{},
		RecentEvents: []EventSummary{},
		Comments:     []CommentSummary{},
	}

	timeline, err := s.client.ListTimeline(ctx, repo, number)
	if err != nil {
		s.logger.Warn("timeline fetch failed", zap.String("repo", repo), zap.Int("issue", number), zap.Error(err))
	} else {
		activity.Commits, activity.CrossRefs = extractTimeline(timeline)
	}

	var commentBodies []string
	comments, err := s.client.ListComments(ctx, repo, number)
	if err != nil {
		s.logger.Warn("comments fetch failed", zap.String("repo", repo), zap.Int("issue", number), zap.Error(err))
	} else {
		for _, comment := range comments {
			commentBodies = append(commentBodies, comment.Body)
		}
		activity.Comments = summarizeComments(comments)
	}

	issueEvents, err := s.client.ListIssueEvents(ctx, repo, number)
	if err != nil {
		s.logger.Warn("events fetch failed", zap.String("repo", repo), zap.Int("issue", number), zap.Error(err))
	} else {
		activity.RecentEvents = summarizeEvents(issueEvents)
	}

	activity.BranchNames = ExtractBranchNames(append([]string{issue.Body}, commentBodies...))
	return activity, nil
}

// RegisterWebhook subscribes the callback URL to issue traffic using the
// configured pre-shared secret.
func (s *TrackerService) RegisterWebhook(ctx context.Context, repo, callbackURL string) (*tracker.Hook, error) {
	repo = s.resolveRepo(repo)
	if repo == "" {
		return nil, apperrors.NewValidationError("repository required", nil)
	}
	if callbackURL == "" {
		return nil, apperrors.NewValidationError("callback URL required", nil)
	}
	if s.cfg.WebhookSecret == "" {
		return nil, apperrors.NewConfigurationError("tracker webhook secret not configured")
	}
	return s.client.RegisterWebhook(ctx, repo, callbackURL, s.cfg.WebhookSecret)
}

func (s *TrackerService) resolveRepo(repo string) string {
	if repo != "" {
		return repo
	}
	return s.cfg.DefaultRepo
}

func extractTimeline(timeline []tracker.TimelineEvent) ([]CommitRef, []CrossRef) {
	commits := []CommitRef{}
	refs := []CrossRef{}
	for _, entry := range timeline {
		switch entry.Event {
		case "committed":
			commits = append(commits, CommitRef{
				SHA:     entry.SHA,
				Message: firstLine(entry.Message),
				URL:     entry.HTMLURL,
			})
		case "cross-referenced":
			source := entry.Source.Issue
			if source.Number == 0 {
				continue
			}
			refs = append(refs, CrossRef{
				Number:        source.Number,
				Title:         source.Title,
				State:         source.State,
				URL:           source.HTMLURL,
				IsPullRequest: source.PullRequest != nil,
			})
		}
	}
	return commits, refs
}

func summarizeComments(comments []tracker.Comment) []CommentSummary {
	if len(comments) > maxComments {
		comments = comments[len(comments)-maxComments:]
	}
	out := make([]CommentSummary, 0, len(comments))
	for _, comment := range comments {
		body := comment.Body
		if len(body) > maxCommentLength {
			body = body[:maxCommentLength] + "..."
		}
		out = append(out, CommentSummary{
			Author:    comment.User.Login,
			Body:      body,
			CreatedAt: comment.CreatedAt,
		})
	}
	return out
}

func summarizeEvents(issueEvents []tracker.IssueEvent) []EventSummary {
	if len(issueEvents) > maxRecentEvents {
		issueEvents = issueEvents[len(issueEvents)-maxRecentEvents:]
	}
	out := make([]EventSummary, 0, len(issueEvents))
	for _, event := range issueEvents {
		summary := EventSummary{
			Event:     event.Event,
			Actor:     event.Actor.Login,
			Timestamp: event.CreatedAt,
		}
		if event.Label != nil {
			summary.Label = event.Label.Name
		}
		out = append(out, summary)
	}
	return out
}

// ExtractBranchNames scans text for branch-name-shaped tokens, deduplicated
// and sorted. Heuristic only.
func ExtractBranchNames(texts []string) []string {
	seen := map[string]struct{}{}
	for _, text := range texts {
		for _, match := range branchNamePattern.FindAllString(text, -1) {
			seen[match] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
