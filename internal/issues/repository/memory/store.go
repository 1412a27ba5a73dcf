// Package memory is an in-process ProjectStore used for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

// Store keeps projects in a map guarded by a single lock.
type Store struct {
	mu       sync.RWMutex
	projects map[string][]domain.Issue
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{projects: make(map[string][]domain.Issue)}
}

func (s *Store) Get(_ context.Context, project string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues, ok := s.projects[project]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	out := make([]domain.Issue, len(issues))
	copy(out, issues)
	return &domain.Project{Name: project, Issues: out}, nil
}

func (s *Store) Append(_ context.Context, project string, issue domain.Issue) (*domain.Issue, error) {
	issue.ID = uuid.New().String()

	s.mu.Lock()
	s.projects[project] = append(s.projects[project], issue)
	s.mu.Unlock()

	return &issue, nil
}

func (s *Store) Update(_ context.Context, project, id string, patch domain.IssuePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	issues := s.projects[project]
	for i := range issues {
		if issues[i].ID == id {
			patch.Apply(&issues[i])
			found = true
		}
	}
	if !found {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (s *Store) Remove(_ context.Context, project, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	issues, ok := s.projects[project]
	if !ok {
		return domain.ErrIssueNotFound
	}
	kept := make([]domain.Issue, 0, len(issues))
	for _, is := range issues {
		if is.ID != id {
			kept = append(kept, is)
		}
	}
	if len(kept) == len(issues) {
		return domain.ErrIssueNotFound
	}
	s.projects[project] = kept
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Seed inserts issues verbatim, keeping their IDs. Tests use it to set up
// states the public API cannot produce, such as duplicate IDs.
func (s *Store) Seed(project string, issues ...domain.Issue) {
	s.mu.Lock()
	s.projects[project] = append(s.projects[project], issues...)
	s.mu.Unlock()
}
