package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/tracker"
)

func issuePayload(action string, number int, labels ...string) tracker.WebhookPayload {
	payload := tracker.WebhookPayload{Action: action}
	payload.Issue.Number = number
	for _, name := range labels {
		payload.Issue.Labels = append(payload.Issue.Labels, tracker.Label{Name: name})
	}
	return payload
}

func linkedCase(id string, issueNumber int, status domain.CaseStatus) *domain.Case {
	return &domain.Case{ID: id, Title: "entry " + id, Status: status, ExternalIssueNumber: &issueNumber}
}

func TestComputeNextStatusClosed(t *testing.T) {
	status, ok := ComputeNextStatus("closed", []string{"rejected", "needs-info"})
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusRejected, status)

	status, ok = ComputeNextStatus("closed", []string{"needs-info"})
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusApproved, status)

	status, ok = ComputeNextStatus("closed", nil)
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusApproved, status)
}

func TestComputeNextStatusReopened(t *testing.T) {
	status, ok := ComputeNextStatus("reopened", []string{"finalist"})
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusInReview, status)
}

func TestComputeNextStatusLabelPrecedence(t *testing.T) {
	// finalist wins no matter what else is present.
	for _, labels := range [][]string{
		{"finalist"},
		{"approved", "finalist"},
		{"rejected", "in-review", "finalist"},
		{"finalist", "approved", "rejected", "in-review"},
	} {
		status, ok := ComputeNextStatus("labeled", labels)
		require.True(t, ok, "labels %v", labels)
		assert.Equal(t, domain.CaseStatusFinalist, status, "labels %v", labels)
	}

	status, ok := ComputeNextStatus("labeled", []string{"rejected", "approved"})
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusApproved, status)

	status, ok = ComputeNextStatus("unlabeled", []string{"in-review"})
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusInReview, status)
}

func TestComputeNextStatusNoMapping(t *testing.T) {
	_, ok := ComputeNextStatus("labeled", []string{"question", "wontfix"})
	assert.False(t, ok)

	_, ok = ComputeNextStatus("assigned", []string{"finalist"})
	assert.False(t, ok)
}

func TestHandleIssueEventTransition(t *testing.T) {
	repo := newFakeCaseRepo(linkedCase("c1", 42, domain.CaseStatusInReview))
	svc := NewCaseSyncService(repo, nil, zap.NewNop())

	result, err := svc.HandleIssueEvent(context.Background(), "issues", issuePayload("labeled", 42, "finalist"))
	require.NoError(t, err)
	assert.True(t, result.LinkedCase)
	assert.True(t, result.Transitioned)
	assert.Equal(t, domain.CaseStatusFinalist, result.Status)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, domain.ReviewedBySync, repo.lastReviewer)
}

func TestHandleIssueEventNoOpWhenStatusUnchanged(t *testing.T) {
	repo := newFakeCaseRepo(linkedCase("c1", 42, domain.CaseStatusFinalist))
	svc := NewCaseSyncService(repo, nil, zap.NewNop())

	// Duplicate delivery of the same label state must not write.
	for i := 0; i < 3; i++ {
		result, err := svc.HandleIssueEvent(context.Background(), "issues", issuePayload("labeled", 42, "finalist"))
		require.NoError(t, err)
		assert.True(t, result.LinkedCase)
		assert.False(t, result.Transitioned)
	}
	assert.Equal(t, 0, repo.updateCalls)
	assert.Nil(t, repo.cases[42].ReviewedAt)
}

func TestHandleIssueEventUnlinkedIssue(t *testing.T) {
	repo := newFakeCaseRepo(linkedCase("c1", 42, domain.CaseStatusPending))
	svc := NewCaseSyncService(repo, nil, zap.NewNop())

	result, err := svc.HandleIssueEvent(context.Background(), "issues", issuePayload("closed", 999))
	require.NoError(t, err)
	assert.False(t, result.LinkedCase)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestHandleIssueEventIgnoresOtherEventTypes(t *testing.T) {
	repo := newFakeCaseRepo(linkedCase("c1", 42, domain.CaseStatusPending))
	svc := NewCaseSyncService(repo, nil, zap.NewNop())

	result, err := svc.HandleIssueEvent(context.Background(), "issue_comment", issuePayload("created", 42))
	require.NoError(t, err)
	assert.False(t, result.LinkedCase)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestHandleIssueEventClosedRejected(t *testing.T) {
	repo := newFakeCaseRepo(linkedCase("c1", 42, domain.CaseStatusInReview))
	svc := NewCaseSyncService(repo, nil, zap.NewNop())

	result, err := svc.HandleIssueEvent(context.Background(), "issues", issuePayload("closed", 42, "rejected"))
	require.NoError(t, err)
	assert.True(t, result.Transitioned)
	assert.Equal(t, domain.CaseStatusRejected, repo.lastStatus)
}
