package domain

import "time"

// TimeLayout is the ISO-8601 form used for created_on/updated_on.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Issue is a single ticket embedded in a Project document.
// It is storage-agnostic; each store maps it onto its own record shape.
type Issue struct {
	ID         string `json:"id"`
	IssueTitle string `json:"issue_title"`
	IssueText  string `json:"issue_text"`
	CreatedOn  string `json:"created_on"`
	UpdatedOn  string `json:"updated_on"`
	CreatedBy  string `json:"created_by"`
	AssignedTo string `json:"assigned_to"`
	Open       bool   `json:"open"`
	StatusText string `json:"status_text"`
}

// Project groups issues under a free-form name.
type Project struct {
	Name   string  `json:"project"`
	Issues []Issue `json:"issues"`
}

// IssuePatch is the resolved set of attribute writes for one issue.
// Nil fields are left untouched; UpdatedOn is always written.
type IssuePatch struct {
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	CreatedOn  *string
	Open       *bool
	UpdatedOn  string
}

// Apply writes the patch onto is in place.
func (p IssuePatch) Apply(is *Issue) {
	if p.IssueTitle != nil {
		is.IssueTitle = *p.IssueTitle
	}
	if p.IssueText != nil {
		is.IssueText = *p.IssueText
	}
	if p.CreatedBy != nil {
		is.CreatedBy = *p.CreatedBy
	}
	if p.AssignedTo != nil {
		is.AssignedTo = *p.AssignedTo
	}
	if p.StatusText != nil {
		is.StatusText = *p.StatusText
	}
	if p.CreatedOn != nil {
		is.CreatedOn = *p.CreatedOn
	}
	if p.Open != nil {
		is.Open = *p.Open
	}
	is.UpdatedOn = p.UpdatedOn
}

// FormatTime renders t in TimeLayout (UTC, millisecond precision).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
