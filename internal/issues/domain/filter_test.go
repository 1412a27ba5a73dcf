package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleIssues() []Issue {
	return []Issue{
		{ID: "a", IssueTitle: "T1", IssueText: "D1", CreatedBy: "Alice", AssignedTo: "Bob", Open: true, StatusText: "new"},
		{ID: "b", IssueTitle: "T2", IssueText: "D2", CreatedBy: "Alice", AssignedTo: "", Open: false},
		{ID: "c", IssueTitle: "T3", IssueText: "D3", CreatedBy: "Carol", AssignedTo: "Bob", Open: true},
	}
}

func ids(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	issues := sampleIssues()

	t.Run("no constraints returns everything in order", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, ids(Filter{}.Apply(issues)))
	})

	t.Run("single field uses string equality", func(t *testing.T) {
		got := Filter{CreatedBy: Some("Alice")}.Apply(issues)
		assert.Equal(t, []string{"a", "b"}, ids(got))
	})

	t.Run("multiple fields are combined with AND", func(t *testing.T) {
		got := Filter{CreatedBy: Some("Alice"), AssignedTo: Some("Bob")}.Apply(issues)
		assert.Equal(t, []string{"a"}, ids(got))
	})

	t.Run("empty value imposes no constraint", func(t *testing.T) {
		got := Filter{AssignedTo: Some("")}.Apply(issues)
		assert.Len(t, got, 3)
	})

	t.Run("open is parsed case-insensitively", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, ids(Filter{Open: Some("TRUE")}.Apply(issues)))
		assert.Equal(t, []string{"b"}, ids(Filter{Open: Some("false")}.Apply(issues)))
	})

	t.Run("unparsable open matches nothing", func(t *testing.T) {
		got := Filter{Open: Some("maybe")}.Apply(issues)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("filter by id", func(t *testing.T) {
		assert.Equal(t, []string{"c"}, ids(Filter{ID: Some("c")}.Apply(issues)))
	})

	t.Run("no match yields empty non-nil slice", func(t *testing.T) {
		got := Filter{IssueTitle: Some("nope")}.Apply(issues)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
