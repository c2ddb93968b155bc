package tracker

// WebhookPayload is the decoded body of an inbound issue webhook. Only the
// fields the synchronizer inspects are modeled; anything else in the body is
// ignored rather than assumed.
type WebhookPayload struct {
	Action string       `json:"action"`
	Issue  WebhookIssue `json:"issue"`
	Label  *Label       `json:"label"`
}

// WebhookIssue is the issue embedded in a webhook delivery.
type WebhookIssue struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Labels []Label `json:"labels"`
}

// LabelNames flattens the issue's current label set.
func (i WebhookIssue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, label := range i.Labels {
		names = append(names, label.Name)
	}
	return names
}
