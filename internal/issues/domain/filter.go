package domain

// Filter selects issues by field equality. Fields supplied with an empty
// value impose no constraint.
type Filter struct {
	ID         Field
	IssueTitle Field
	IssueText  Field
	CreatedOn  Field
	UpdatedOn  Field
	CreatedBy  Field
	AssignedTo Field
	StatusText Field
	Open       Field
}

// Match reports whether is satisfies every constraint in f. An open
// constraint that is neither "true" nor "false" matches nothing.
func (f Filter) Match(is Issue) bool {
	checks := []struct {
		want Field
		got  string
	}{
		{f.ID, is.ID},
		{f.IssueTitle, is.IssueTitle},
		{f.IssueText, is.IssueText},
		{f.CreatedOn, is.CreatedOn},
		{f.UpdatedOn, is.UpdatedOn},
		{f.CreatedBy, is.CreatedBy},
		{f.AssignedTo, is.AssignedTo},
		{f.StatusText, is.StatusText},
	}
	for _, c := range checks {
		if c.want.NonEmpty() && c.want.Value != c.got {
			return false
		}
	}

	if f.Open.NonEmpty() {
		open, err := ParseOpen(f.Open.Value)
		if err != nil || open != is.Open {
			return false
		}
	}
	return true
}

// Apply returns the issues matching f, preserving order. The result is
// never nil so it serializes as an empty JSON array.
func (f Filter) Apply(issues []Issue) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		if f.Match(is) {
			out = append(out, is)
		}
	}
	return out
}
