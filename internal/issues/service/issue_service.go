package service

import (
	"context"
	"errors"
	"time"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository"
)

// IssueService handles validation, defaults and filtering for issues
type IssueService struct {
	store   repository.ProjectStore
	now     func() time.Time
	timeout time.Duration
}

// Option configures an IssueService.
type Option func(*IssueService)

// WithClock replaces time.Now, for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *IssueService) { s.now = now }
}

// WithTimeout bounds every store call. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(s *IssueService) { s.timeout = d }
}

// NewIssueService creates a new IssueService
func NewIssueService(store repository.ProjectStore, opts ...Option) *IssueService {
	s := &IssueService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the project's issues matching filter, in insertion order.
// An unknown project yields an empty list.
func (s *IssueService) List(ctx context.Context, project string, filter domain.Filter) ([]domain.Issue, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.store.Get(ctx, project)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return []domain.Issue{}, nil
	}
	if err != nil {
		return nil, err
	}
	return filter.Apply(p.Issues), nil
}

// Create validates in, fills defaults and appends the issue to project.
func (s *IssueService) Create(ctx context.Context, project string, in domain.CreateInput) (*domain.Issue, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ts := domain.FormatTime(s.now())
	issue := domain.Issue{
		IssueTitle: in.IssueTitle.Value,
		IssueText:  in.IssueText.Value,
		CreatedBy:  in.CreatedBy.Value,
		AssignedTo: in.AssignedTo.Value,
		StatusText: in.StatusText.Value,
		Open:       true,
		CreatedOn:  ts,
		UpdatedOn:  ts,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.Append(ctx, project, issue)
}

// Update applies the supplied non-empty fields to exactly one issue and
// refreshes its updated_on.
func (s *IssueService) Update(ctx context.Context, project string, in domain.UpdateInput) error {
	if !in.ID.Set {
		return domain.ErrMissingID
	}
	if !in.HasUpdates() {
		return domain.ErrNoUpdateFields
	}

	patch, err := in.Patch(domain.FormatTime(s.now()))
	if err != nil {
		return domain.ErrCouldNotUpdate
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.store.Get(ctx, project)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return domain.ErrCouldNotUpdate
	}
	if err != nil {
		return err
	}
	if countID(p.Issues, in.ID.Value) != 1 {
		return domain.ErrCouldNotUpdate
	}

	err = s.store.Update(ctx, project, in.ID.Value, patch)
	if errors.Is(err, domain.ErrIssueNotFound) {
		return domain.ErrCouldNotUpdate
	}
	return err
}

// Delete removes every issue carrying id from project.
func (s *IssueService) Delete(ctx context.Context, project string, id domain.Field) error {
	if !id.Set {
		return domain.ErrMissingID
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.Remove(ctx, project, id.Value)
	if errors.Is(err, domain.ErrIssueNotFound) {
		return domain.ErrCouldNotDelete
	}
	return err
}

// Ping checks the backing store.
func (s *IssueService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *IssueService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func countID(issues []domain.Issue, id string) int {
	n := 0
	for _, is := range issues {
		if is.ID == id {
			n++
		}
	}
	return n
}
