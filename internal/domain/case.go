package domain

import "time"

// CaseStatus enumerates review states for a submitted case.
type CaseStatus string

const (
	CaseStatusPending  CaseStatus = "pending"
	CaseStatusInReview CaseStatus = "in_review"
	CaseStatusFinalist CaseStatus = "finalist"
	CaseStatusApproved CaseStatus = "approved"
	CaseStatusRejected CaseStatus = "rejected"
)

// ReviewedBySync identifies automated status synchronization in the audit
// trail, distinguishing it from human reviewer actions.
const ReviewedBySync = "issue-sync"

// Case is a competition entry under jury review. Once linked to an issue in
// the external tracker, its status follows the tracker's label and close
// events.
type Case struct {
	ID                  string
	Title               string
	Status              CaseStatus
	ExternalIssueNumber *int
	ReviewedAt          *time.Time
	ReviewedBy          *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
