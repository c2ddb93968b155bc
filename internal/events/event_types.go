package events

import (
	"time"

	"github.com/spec-kit/awards-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketPaid        EventType = "ticket_paid"
	EventCaseStatusChanged EventType = "case_status_changed"
	EventCampaignCompleted EventType = "campaign_completed"
)

// Event represents a domain event emitted by services. Events are a
// secondary channel: publishing never affects the outcome of the operation
// that raised them.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketPaidPayload payload.
type TicketPaidPayload struct {
	TicketType  domain.TicketType `json:"ticket_type"`
	PriceCents  int64             `json:"price_cents"`
	ReferenceID string            `json:"reference_id"`
	OwnerEmail  string            `json:"owner_email"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus   domain.CaseStatus `json:"old_status"`
	NewStatus   domain.CaseStatus `json:"new_status"`
	IssueNumber int               `json:"issue_number"`
	TriggeredBy string            `json:"triggered_by"`
}

// CampaignCompletedPayload payload.
type CampaignCompletedPayload struct {
	NotificationType string `json:"notification_type"`
	Sent             int    `json:"sent"`
	Failed           int    `json:"failed"`
}
