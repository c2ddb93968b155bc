package domain

import "time"

// EmailStatus enumerates delivery outcomes.
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// TemplateType identifies which email template a delivery used.
type TemplateType string

const (
	TemplateTicketConfirmation TemplateType = "ticket_confirmation"
	TemplateNotification       TemplateType = "notification"
)

// EmailLog is an append-only record of a single delivery attempt. Rows are
// never updated after creation; they back the audit trail and delivery-rate
// reporting.
type EmailLog struct {
	ID           string
	Recipient    string
	Subject      string
	TemplateType TemplateType
	Status       EmailStatus
	Metadata     map[string]any
	CreatedAt    time.Time
}
