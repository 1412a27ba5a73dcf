// Package redisstore is a ProjectStore on Redis, one JSON document per project.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

const (
	projectKeyPrefix = "issues:project:" // issues:project:{name} -> JSON project document
	maxTxRetries     = 50
)

// ErrTooManyConflicts is returned when optimistic transactions on one
// project keep losing to concurrent writers.
var ErrTooManyConflicts = errors.New("too many concurrent writes to project")

// Store keeps one JSON document per project and mutates it inside
// WATCH/MULTI transactions.
type Store struct {
	client *redis.Client
}

// NewStore creates a new redis-backed Store
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, project string) (*domain.Project, error) {
	data, err := s.client.Get(ctx, projectKey(project)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &p, nil
}

func (s *Store) Append(ctx context.Context, project string, issue domain.Issue) (*domain.Issue, error) {
	issue.ID = uuid.New().String()

	err := s.mutate(ctx, project, true, func(p *domain.Project) error {
		p.Issues = append(p.Issues, issue)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *Store) Update(ctx context.Context, project, id string, patch domain.IssuePatch) error {
	return s.mutate(ctx, project, false, func(p *domain.Project) error {
		found := false
		for i := range p.Issues {
			if p.Issues[i].ID == id {
				patch.Apply(&p.Issues[i])
				found = true
			}
		}
		if !found {
			return domain.ErrIssueNotFound
		}
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, project, id string) error {
	return s.mutate(ctx, project, false, func(p *domain.Project) error {
		kept := make([]domain.Issue, 0, len(p.Issues))
		for _, is := range p.Issues {
			if is.ID != id {
				kept = append(kept, is)
			}
		}
		if len(kept) == len(p.Issues) {
			return domain.ErrIssueNotFound
		}
		p.Issues = kept
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// mutate runs fn against the current project document and writes the
// result back only if no other client touched the key in between.
// With upsert set, a missing project starts out empty; otherwise a
// missing project reports domain.ErrIssueNotFound.
func (s *Store) mutate(ctx context.Context, project string, upsert bool, fn func(p *domain.Project) error) error {
	key := projectKey(project)

	txf := func(tx *redis.Tx) error {
		p := domain.Project{Name: project}

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == redis.Nil:
			if !upsert {
				return domain.ErrIssueNotFound
			}
		case err != nil:
			return fmt.Errorf("failed to get project: %w", err)
		default:
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("failed to unmarshal project: %w", err)
			}
		}

		if err := fn(&p); err != nil {
			return err
		}

		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		})
		if err != nil && err != redis.TxFailedErr {
			return fmt.Errorf("failed to write project: %w", err)
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return ErrTooManyConflicts
}

func projectKey(project string) string {
	return projectKeyPrefix + project
}
