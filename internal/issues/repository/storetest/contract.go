// Package storetest holds the behavioural contract every ProjectStore
// implementation is tested against.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository"
)

// Run exercises store against the ProjectStore contract. newStore must
// return an empty store for each call.
func Run(t *testing.T, newStore func(t *testing.T) repository.ProjectStore) {
	ctx := context.Background()

	t.Run("get unknown project", func(t *testing.T) {
		_, err := newStore(t).Get(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("append creates project and keeps order", func(t *testing.T) {
		s := newStore(t)

		first, err := s.Append(ctx, "p", issue("one"))
		require.NoError(t, err)
		second, err := s.Append(ctx, "p", issue("two"))
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		p, err := s.Get(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "p", p.Name)
		require.Len(t, p.Issues, 2)
		assert.Equal(t, *first, p.Issues[0])
		assert.Equal(t, *second, p.Issues[1])
	})

	t.Run("projects are isolated", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, "a", issue("in a"))
		require.NoError(t, err)

		_, err = s.Get(ctx, "b")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("update patches one element", func(t *testing.T) {
		s := newStore(t)
		keep, err := s.Append(ctx, "p", issue("keep"))
		require.NoError(t, err)
		target, err := s.Append(ctx, "p", issue("target"))
		require.NoError(t, err)

		title := "patched"
		open := false
		err = s.Update(ctx, "p", target.ID, domain.IssuePatch{IssueTitle: &title, Open: &open, UpdatedOn: "2030-01-01T00:00:00.000Z"})
		require.NoError(t, err)

		p, err := s.Get(ctx, "p")
		require.NoError(t, err)
		require.Len(t, p.Issues, 2)
		assert.Equal(t, *keep, p.Issues[0])
		assert.Equal(t, "patched", p.Issues[1].IssueTitle)
		assert.Equal(t, target.IssueText, p.Issues[1].IssueText)
		assert.False(t, p.Issues[1].Open)
		assert.Equal(t, "2030-01-01T00:00:00.000Z", p.Issues[1].UpdatedOn)
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, "p", issue("x"))
		require.NoError(t, err)

		err = s.Update(ctx, "p", "000000000000000000000000", domain.IssuePatch{UpdatedOn: "t"})
		assert.ErrorIs(t, err, domain.ErrIssueNotFound)
		err = s.Update(ctx, "ghost", "000000000000000000000000", domain.IssuePatch{UpdatedOn: "t"})
		assert.ErrorIs(t, err, domain.ErrIssueNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Append(ctx, "p", issue("a"))
		require.NoError(t, err)
		b, err := s.Append(ctx, "p", issue("b"))
		require.NoError(t, err)

		require.NoError(t, s.Remove(ctx, "p", a.ID))
		assert.ErrorIs(t, s.Remove(ctx, "p", a.ID), domain.ErrIssueNotFound)
		assert.ErrorIs(t, s.Remove(ctx, "ghost", b.ID), domain.ErrIssueNotFound)

		p, err := s.Get(ctx, "p")
		require.NoError(t, err)
		require.Len(t, p.Issues, 1)
		assert.Equal(t, b.ID, p.Issues[0].ID)
	})

	t.Run("concurrent appends are not lost", func(t *testing.T) {
		s := newStore(t)
		const n = 10

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Append(ctx, "busy", issue(fmt.Sprintf("issue %d", i)))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		p, err := s.Get(ctx, "busy")
		require.NoError(t, err)
		assert.Len(t, p.Issues, n)
	})

	t.Run("concurrent update and append are not lost", func(t *testing.T) {
		s := newStore(t)
		base, err := s.Append(ctx, "busy", issue("base"))
		require.NoError(t, err)

		const n = 10
		var wg sync.WaitGroup
		errs := make(chan error, 2*n)
		for i := 0; i < n; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_, err := s.Append(ctx, "busy", issue(fmt.Sprintf("issue %d", i)))
				errs <- err
			}(i)
			go func(i int) {
				defer wg.Done()
				status := fmt.Sprintf("s%d", i)
				errs <- s.Update(ctx, "busy", base.ID, domain.IssuePatch{StatusText: &status, UpdatedOn: "t"})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		p, err := s.Get(ctx, "busy")
		require.NoError(t, err)
		require.Len(t, p.Issues, n+1)
		assert.Equal(t, base.ID, p.Issues[0].ID)
		assert.Regexp(t, `^s\d+$`, p.Issues[0].StatusText)
		assert.Equal(t, "base", p.Issues[0].IssueTitle)
	})

	t.Run("concurrent remove and append are not lost", func(t *testing.T) {
		s := newStore(t)
		const n = 10
		victims := make([]string, 0, n)
		for i := 0; i < n; i++ {
			is, err := s.Append(ctx, "busy", issue(fmt.Sprintf("victim %d", i)))
			require.NoError(t, err)
			victims = append(victims, is.ID)
		}

		var wg sync.WaitGroup
		errs := make(chan error, 2*n)
		for i := 0; i < n; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_, err := s.Append(ctx, "busy", issue(fmt.Sprintf("survivor %d", i)))
				errs <- err
			}(i)
			go func(id string) {
				defer wg.Done()
				errs <- s.Remove(ctx, "busy", id)
			}(victims[i])
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		p, err := s.Get(ctx, "busy")
		require.NoError(t, err)
		require.Len(t, p.Issues, n)
		for _, is := range p.Issues {
			assert.Contains(t, is.IssueTitle, "survivor")
		}
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}

func issue(title string) domain.Issue {
	return domain.Issue{
		IssueTitle: title,
		IssueText:  "text of " + title,
		CreatedBy:  "tester",
		Open:       true,
		CreatedOn:  "2024-01-01T00:00:00.000Z",
		UpdatedOn:  "2024-01-01T00:00:00.000Z",
	}
}
