package tracker

import "time"

// Repo is a repository visible to the configured credential.
type Repo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Private   bool      `json:"private"`
	HTMLURL   string    `json:"html_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label is a tag attached to an issue.
type Label struct {
	Name string `json:"name"`
}

// Actor is the user responsible for an event or comment.
type Actor struct {
	Login string `json:"login"`
}

// Issue is a tracker issue.
type Issue struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	State   string  `json:"state"`
	HTMLURL string  `json:"html_url"`
	Labels  []Label `json:"labels"`
}

// Comment is an issue comment.
type Comment struct {
	Body      string    `json:"body"`
	User      Actor     `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// TimelineEvent is one entry of an issue's timeline. Only the fields needed
// for commit and cross-reference extraction are decoded.
type TimelineEvent struct {
	Event   string `json:"event"`
	SHA     string `json:"sha"`
	Message string `json:"message"`
	HTMLURL string `json:"html_url"`
	Source  struct {
		Issue struct {
			Number      int    `json:"number"`
			Title       string `json:"title"`
			State       string `json:"state"`
			HTMLURL     string `json:"html_url"`
			PullRequest *struct {
				HTMLURL string `json:"html_url"`
			} `json:"pull_request"`
		} `json:"issue"`
	} `json:"source"`
}

// IssueEvent is an audit event on an issue (labeled, closed, ...).
type IssueEvent struct {
	Event     string    `json:"event"`
	Actor     Actor     `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
	Label     *Label    `json:"label"`
}

// Hook is a registered webhook subscription.
type Hook struct {
	ID     int64    `json:"id"`
	Events []string `json:"events"`
	Active bool     `json:"active"`
}
