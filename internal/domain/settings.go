package domain

import "time"

// SettingKeyTicketPricing names the pricing configuration record consulted
// before checkout falls back to hardcoded defaults.
const SettingKeyTicketPricing = "ticket_pricing"

// Setting is a single configuration record keyed by name.
type Setting struct {
	Key       string
	Value     map[string]any
	UpdatedAt time.Time
}

// TicketPricing is the shape stored under SettingKeyTicketPricing.
type TicketPricing struct {
	StreamingCents int64
	VIPCents       int64
}
