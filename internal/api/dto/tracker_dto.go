package dto

// CreateIssueRequest payload for POST /issue-create.
type CreateIssueRequest struct {
	Repo   string   `json:"repo"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// CreateIssueResponse mirrors the created issue.
type CreateIssueResponse struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	State  string `json:"state"`
}

// RegisterWebhookRequest payload for POST /issue-register-webhook.
type RegisterWebhookRequest struct {
	Repo        string `json:"repo"`
	CallbackURL string `json:"callbackUrl"`
}
