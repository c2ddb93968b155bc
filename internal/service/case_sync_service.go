package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/events"
	"github.com/spec-kit/awards-service/internal/repository"
	"github.com/spec-kit/awards-service/internal/tracker"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// issueEventType is the webhook event type carrying issue lifecycle actions.
const issueEventType = "issues"

// CaseSyncService maps issue tracker webhook events onto the case review
// state machine.
type CaseSyncService struct {
	cases      repository.CaseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCaseSyncService constructs the service.
func NewCaseSyncService(cases repository.CaseRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CaseSyncService {
	return &CaseSyncService{cases: cases, dispatcher: dispatcher, logger: logger}
}

// SyncResult reports what a webhook delivery did.
type SyncResult struct {
	LinkedCase   bool
	CaseID       string
	Transitioned bool
	Status       domain.CaseStatus
}

// HandleIssueEvent applies one webhook delivery. Deliveries for issues with
// no linked case, unrecognized actions, and label states that map to the
// current status are all acknowledged no-ops. Duplicate deliveries are
// idempotent by virtue of the only-write-if-different guard.
func (s *CaseSyncService) HandleIssueEvent(ctx context.Context, eventType string, payload tracker.WebhookPayload) (*SyncResult, error) {
	if eventType != issueEventType {
		s.logger.Debug("ignoring tracker event", zap.String("event_type", eventType))
		return &SyncResult{}, nil
	}

	next, ok := ComputeNextStatus(payload.Action, payload.Issue.LabelNames())
	if !ok {
		s.logger.Debug("no status mapping for action",
			zap.String("action", payload.Action),
			zap.Int("issue", payload.Issue.Number))
		return &SyncResult{}, nil
	}

	linked, err := s.cases.GetByIssueNumber(ctx, payload.Issue.Number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Issues unrelated to any case are expected traffic.
			return &SyncResult{LinkedCase: false}, nil
		}
		return nil, apperrors.MapError(err)
	}

	result := &SyncResult{LinkedCase: true, CaseID: linked.ID, Status: linked.Status}
	if next == linked.Status {
		return result, nil
	}

	now := time.Now()
	if err := s.cases.UpdateStatus(ctx, linked.ID, next, now, domain.ReviewedBySync); err != nil {
		return nil, apperrors.MapError(err)
	}
	result.Transitioned = true
	result.Status = next

	s.publish(ctx, linked, next, payload.Issue.Number)
	return result, nil
}

// ComputeNextStatus derives the candidate review status from an issue action
// and the issue's full current label set. The second return is false when
// the event carries no status meaning.
//
// Label precedence: finalist > approved > rejected > in-review.
func ComputeNextStatus(action string, labels []string) (domain.CaseStatus, bool) {
	switch action {
	case "closed":
		if containsLabel(labels, "rejected") {
			return domain.CaseStatusRejected, true
		}
		return domain.CaseStatusApproved, true
	case "reopened":
		return domain.CaseStatusInReview, true
	case "labeled", "unlabeled":
		for _, candidate := range []struct {
			label  string
			status domain.CaseStatus
		}{
			{"finalist", domain.CaseStatusFinalist},
			{"approved", domain.CaseStatusApproved},
			{"rejected", domain.CaseStatusRejected},
			{"in-review", domain.CaseStatusInReview},
		} {
			if containsLabel(labels, candidate.label) {
				return candidate.status, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func containsLabel(labels []string, name string) bool {
	for _, label := range labels {
		if label == name {
			return true
		}
	}
	return false
}

func (s *CaseSyncService) publish(ctx context.Context, linked *domain.Case, next domain.CaseStatus, issueNumber int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCaseStatusChanged,
		SubjectID: linked.ID,
		Timestamp: time.Now(),
		Payload: events.CaseStatusChangedPayload{
			OldStatus:   linked.Status,
			NewStatus:   next,
			IssueNumber: issueNumber,
			TriggeredBy: domain.ReviewedBySync,
		},
	})
}
