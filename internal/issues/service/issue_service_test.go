package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository/memory"
)

// stepClock returns a clock that advances by one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func setupService(t *testing.T) (*IssueService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewIssueService(store, WithClock(stepClock()), WithTimeout(time.Second)), store
}

func createInput(title, text, by string) domain.CreateInput {
	return domain.CreateInput{
		IssueTitle: domain.Some(title),
		IssueText:  domain.Some(text),
		CreatedBy:  domain.Some(by),
	}
}

func TestIssueService_Create(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	t.Run("fills defaults", func(t *testing.T) {
		is, err := svc.Create(ctx, "p", createInput("T1", "D1", "A"))
		require.NoError(t, err)
		assert.NotEmpty(t, is.ID)
		assert.True(t, is.Open)
		assert.Equal(t, "", is.AssignedTo)
		assert.Equal(t, "", is.StatusText)
		assert.Equal(t, is.CreatedOn, is.UpdatedOn)
		assert.Equal(t, "2024-03-01T12:00:01.000Z", is.CreatedOn)
	})

	t.Run("echoes optional fields", func(t *testing.T) {
		in := createInput("T2", "D2", "A")
		in.AssignedTo = domain.Some("Dave")
		in.StatusText = domain.Some("Investigating")

		is, err := svc.Create(ctx, "p", in)
		require.NoError(t, err)
		assert.Equal(t, "Dave", is.AssignedTo)
		assert.Equal(t, "Investigating", is.StatusText)
	})

	t.Run("missing required field persists nothing", func(t *testing.T) {
		in := createInput("T3", "D3", "A")
		in.IssueText = domain.Field{}

		_, err := svc.Create(ctx, "other", in)
		assert.ErrorIs(t, err, domain.ErrMissingFields)

		issues, err := svc.List(ctx, "other", domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, issues)
	})
}

func TestIssueService_List(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	t.Run("unknown project is an empty list", func(t *testing.T) {
		issues, err := svc.List(ctx, "nope", domain.Filter{})
		require.NoError(t, err)
		assert.NotNil(t, issues)
		assert.Empty(t, issues)
	})

	t.Run("filters by created_by", func(t *testing.T) {
		a, err := svc.Create(ctx, "p", createInput("T1", "D1", "A"))
		require.NoError(t, err)
		_, err = svc.Create(ctx, "p", createInput("T2", "D2", "B"))
		require.NoError(t, err)

		issues, err := svc.List(ctx, "p", domain.Filter{CreatedBy: domain.Some("A")})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, a.ID, issues[0].ID)
	})
}

func TestIssueService_Update(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "p", createInput("T1", "D1", "A"))
	require.NoError(t, err)

	t.Run("missing id", func(t *testing.T) {
		err := svc.Update(ctx, "p", domain.UpdateInput{IssueTitle: domain.Some("x")})
		assert.ErrorIs(t, err, domain.ErrMissingID)
	})

	t.Run("no update fields", func(t *testing.T) {
		err := svc.Update(ctx, "p", domain.UpdateInput{ID: domain.Some(created.ID)})
		assert.ErrorIs(t, err, domain.ErrNoUpdateFields)
	})

	t.Run("unknown id does not mutate", func(t *testing.T) {
		before, err := store.Get(ctx, "p")
		require.NoError(t, err)

		err = svc.Update(ctx, "p", domain.UpdateInput{ID: domain.Some("missing"), IssueTitle: domain.Some("x")})
		assert.ErrorIs(t, err, domain.ErrCouldNotUpdate)

		after, err := store.Get(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unknown project", func(t *testing.T) {
		err := svc.Update(ctx, "ghost", domain.UpdateInput{ID: domain.Some(created.ID), IssueTitle: domain.Some("x")})
		assert.ErrorIs(t, err, domain.ErrCouldNotUpdate)
	})

	t.Run("empty string is a no-op but updated_on advances", func(t *testing.T) {
		err := svc.Update(ctx, "p", domain.UpdateInput{ID: domain.Some(created.ID), IssueTitle: domain.Some("")})
		require.NoError(t, err)

		issues, err := svc.List(ctx, "p", domain.Filter{ID: domain.Some(created.ID)})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "T1", issues[0].IssueTitle)
		assert.Greater(t, issues[0].UpdatedOn, created.UpdatedOn)
	})

	t.Run("overwrites fields and coerces open", func(t *testing.T) {
		err := svc.Update(ctx, "p", domain.UpdateInput{
			ID:         domain.Some(created.ID),
			IssueText:  domain.Some("changed"),
			AssignedTo: domain.Some("Zoe"),
			Open:       domain.Some("false"),
		})
		require.NoError(t, err)

		issues, err := svc.List(ctx, "p", domain.Filter{Open: domain.Some("false")})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "changed", issues[0].IssueText)
		assert.Equal(t, "Zoe", issues[0].AssignedTo)
		assert.Equal(t, created.CreatedOn, issues[0].CreatedOn)
	})

	t.Run("invalid open is rejected", func(t *testing.T) {
		err := svc.Update(ctx, "p", domain.UpdateInput{ID: domain.Some(created.ID), Open: domain.Some("closed")})
		assert.ErrorIs(t, err, domain.ErrCouldNotUpdate)
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		dup := domain.Issue{ID: "dup", IssueTitle: "x"}
		store.Seed("dups", dup, dup)

		err := svc.Update(ctx, "dups", domain.UpdateInput{ID: domain.Some("dup"), IssueTitle: domain.Some("y")})
		assert.ErrorIs(t, err, domain.ErrCouldNotUpdate)

		p, err := store.Get(ctx, "dups")
		require.NoError(t, err)
		for _, is := range p.Issues {
			assert.Equal(t, "x", is.IssueTitle)
		}
	})
}

func TestIssueService_Delete(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "p", createInput("T1", "D1", "A"))
	require.NoError(t, err)

	t.Run("missing id", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, "p", domain.Field{}), domain.ErrMissingID)
	})

	t.Run("unknown id leaves list unchanged", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, "p", domain.Some("missing")), domain.ErrCouldNotDelete)

		issues, err := svc.List(ctx, "p", domain.Filter{})
		require.NoError(t, err)
		assert.Len(t, issues, 1)
	})

	t.Run("unknown project", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, "ghost", domain.Some(created.ID)), domain.ErrCouldNotDelete)
	})

	t.Run("removes the issue", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "p", domain.Some(created.ID)))

		issues, err := svc.List(ctx, "p", domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, issues)
	})
}

type failingStore struct{ *memory.Store }

var errBoom = errors.New("connection reset")

func (*failingStore) Get(context.Context, string) (*domain.Project, error) { return nil, errBoom }

func TestIssueService_StoreFailuresPropagate(t *testing.T) {
	svc := NewIssueService(&failingStore{Store: memory.NewStore()})
	ctx := context.Background()

	_, err := svc.List(ctx, "p", domain.Filter{})
	assert.ErrorIs(t, err, errBoom)

	err = svc.Update(ctx, "p", domain.UpdateInput{ID: domain.Some("x"), IssueTitle: domain.Some("y")})
	assert.ErrorIs(t, err, errBoom)
}

func TestIssueService_ConcurrentCreates(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	const n = 50
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.Create(ctx, "busy", createInput("t", "x", "a"))
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	issues, err := svc.List(ctx, "busy", domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, issues, n)
}
