package dto

// CheckoutSessionRequest payload for POST /checkout-session.
type CheckoutSessionRequest struct {
	TicketType string `json:"ticketType"`
	TicketID   string `json:"ticketId"`
	UserEmail  string `json:"userEmail"`
}

// CheckoutSessionResponse returned to the purchasing client.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
