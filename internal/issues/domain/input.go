package domain

import "strings"

// Field is an optional string input. Set records whether the key was
// supplied at all, independently of whether its value is empty.
type Field struct {
	Set   bool
	Value string
}

// Some returns a supplied field holding v.
func Some(v string) Field {
	return Field{Set: true, Value: v}
}

// NonEmpty reports whether the field was supplied with a non-empty value.
func (f Field) NonEmpty() bool {
	return f.Set && f.Value != ""
}

// ParseOpen parses "true"/"false" case-insensitively.
func ParseOpen(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ErrInvalidOpen
}

// CreateInput carries the body of a create request.
type CreateInput struct {
	IssueTitle Field
	IssueText  Field
	CreatedBy  Field
	AssignedTo Field
	StatusText Field
}

// Validate checks the required keys by presence, not by value.
func (in CreateInput) Validate() error {
	if !in.IssueTitle.Set || !in.IssueText.Set || !in.CreatedBy.Set {
		return ErrMissingFields
	}
	return nil
}

// UpdateInput carries the body of an update request.
type UpdateInput struct {
	ID         Field
	IssueTitle Field
	IssueText  Field
	CreatedBy  Field
	AssignedTo Field
	StatusText Field
	Open       Field
	CreatedOn  Field
	UpdatedOn  Field
}

// HasUpdates reports whether any mutable key was supplied.
func (in UpdateInput) HasUpdates() bool {
	return in.IssueTitle.Set || in.IssueText.Set || in.CreatedBy.Set ||
		in.AssignedTo.Set || in.StatusText.Set || in.Open.Set ||
		in.CreatedOn.Set || in.UpdatedOn.Set
}

// Patch resolves the input into store writes. Empty-string values are
// skipped rather than clearing the attribute. A supplied updated_on is
// superseded by the refresh timestamp.
func (in UpdateInput) Patch(updatedOn string) (IssuePatch, error) {
	p := IssuePatch{UpdatedOn: updatedOn}
	p.IssueTitle = nonEmpty(in.IssueTitle)
	p.IssueText = nonEmpty(in.IssueText)
	p.CreatedBy = nonEmpty(in.CreatedBy)
	p.AssignedTo = nonEmpty(in.AssignedTo)
	p.StatusText = nonEmpty(in.StatusText)
	p.CreatedOn = nonEmpty(in.CreatedOn)

	if in.Open.NonEmpty() {
		open, err := ParseOpen(in.Open.Value)
		if err != nil {
			return IssuePatch{}, err
		}
		p.Open = &open
	}
	return p, nil
}

func nonEmpty(f Field) *string {
	if !f.NonEmpty() {
		return nil
	}
	v := f.Value
	return &v
}
