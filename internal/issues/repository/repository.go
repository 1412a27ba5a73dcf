package repository

import (
	"context"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

// ProjectStore persists projects and their embedded issue lists.
//
// Append must be an atomic upsert-with-append, and Update and Remove must
// mutate a single element without rewriting the list from a stale read,
// so concurrent writers to one project never drop each other's changes.
type ProjectStore interface {
	// Get returns the project document or domain.ErrProjectNotFound.
	Get(ctx context.Context, project string) (*domain.Project, error)

	// Append adds issue to the project, creating the project if needed,
	// and returns the issue with its store-assigned ID.
	Append(ctx context.Context, project string, issue domain.Issue) (*domain.Issue, error)

	// Update applies patch to the issue with the given id, or returns
	// domain.ErrIssueNotFound when nothing matched.
	Update(ctx context.Context, project, id string, patch domain.IssuePatch) error

	// Remove deletes the issue with the given id, or returns
	// domain.ErrIssueNotFound when nothing was removed.
	Remove(ctx context.Context, project, id string) error

	Ping(ctx context.Context) error
}
