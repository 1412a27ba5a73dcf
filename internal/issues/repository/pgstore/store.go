// Package pgstore is a ProjectStore on PostgreSQL. Each project is one row
// holding its issues as a JSONB array.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    name       TEXT PRIMARY KEY,
    issues     JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides persistence operations for projects
type Store struct {
	db *sql.DB
}

// NewStore creates a new postgres Store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the projects table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, project string) (*domain.Project, error) {
	const q = `SELECT issues FROM projects WHERE name = $1;`

	var raw []byte
	err := s.db.QueryRowContext(ctx, q, project).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	issues, err := decodeIssues(raw)
	if err != nil {
		return nil, err
	}
	return &domain.Project{Name: project, Issues: issues}, nil
}

// Append inserts the project row or concatenates onto its array in one
// statement, so concurrent creates cannot drop each other.
func (s *Store) Append(ctx context.Context, project string, issue domain.Issue) (*domain.Issue, error) {
	issue.ID = uuid.New().String()

	raw, err := json.Marshal([]domain.Issue{issue})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal issue: %w", err)
	}

	const q = `
INSERT INTO projects (name, issues)
VALUES ($1, $2::jsonb)
ON CONFLICT (name) DO UPDATE
SET issues = projects.issues || EXCLUDED.issues, updated_at = now();
`
	if _, err := s.db.ExecContext(ctx, q, project, string(raw)); err != nil {
		return nil, fmt.Errorf("failed to append issue: %w", err)
	}
	return &issue, nil
}

func (s *Store) Update(ctx context.Context, project, id string, patch domain.IssuePatch) error {
	return s.mutate(ctx, project, func(issues []domain.Issue) ([]domain.Issue, error) {
		found := false
		for i := range issues {
			if issues[i].ID == id {
				patch.Apply(&issues[i])
				found = true
			}
		}
		if !found {
			return nil, domain.ErrIssueNotFound
		}
		return issues, nil
	})
}

func (s *Store) Remove(ctx context.Context, project, id string) error {
	return s.mutate(ctx, project, func(issues []domain.Issue) ([]domain.Issue, error) {
		kept := make([]domain.Issue, 0, len(issues))
		for _, is := range issues {
			if is.ID != id {
				kept = append(kept, is)
			}
		}
		if len(kept) == len(issues) {
			return nil, domain.ErrIssueNotFound
		}
		return kept, nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mutate rewrites a project's issues while holding its row lock.
func (s *Store) mutate(ctx context.Context, project string, fn func([]domain.Issue) ([]domain.Issue, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx, `SELECT issues FROM projects WHERE name = $1 FOR UPDATE;`, project).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock project: %w", err)
	}

	issues, err := decodeIssues(raw)
	if err != nil {
		return err
	}
	issues, err = fn(issues)
	if err != nil {
		return err
	}

	out, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("failed to marshal issues: %w", err)
	}

	const q = `UPDATE projects SET issues = $2::jsonb, updated_at = now() WHERE name = $1;`
	if _, err := tx.ExecContext(ctx, q, project, string(out)); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func decodeIssues(raw []byte) ([]domain.Issue, error) {
	issues := make([]domain.Issue, 0)
	if len(raw) == 0 {
		return issues, nil
	}
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
	}
	return issues, nil
}
