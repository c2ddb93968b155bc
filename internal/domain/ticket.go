package domain

import "time"

// TicketType enumerates the ticket variants sold for the ceremony.
type TicketType string

const (
	TicketTypeStreaming TicketType = "streaming"
	TicketTypeVIP       TicketType = "vip"
)

// Valid reports whether the ticket type is one of the sold variants.
func (t TicketType) Valid() bool {
	return t == TicketTypeStreaming || t == TicketTypeVIP
}

// Ticket is the aggregate for a ceremony ticket purchase.
// The payment fields are written in two steps: the session id when checkout
// begins, and the paid fields when the gateway confirms settlement.
type Ticket struct {
	ID                 string
	Code               string
	TicketType         TicketType
	PriceCents         int64
	Paid               bool
	PaidAt             *time.Time
	PaymentSessionID   *string
	PaymentReferenceID *string
	OwnerEmail         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
