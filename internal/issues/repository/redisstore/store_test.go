package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository"
	"github.com/issuetracker/issue-tracker-backend/internal/issues/repository/storetest"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.ProjectStore {
		client, _ := setupTestRedis(t)
		return NewStore(client)
	})
}

func TestStore_DocumentLayout(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	is, err := store.Append(ctx, "apitest", domain.Issue{IssueTitle: "T", Open: true})
	require.NoError(t, err)

	raw, err := mr.Get("issues:project:apitest")
	require.NoError(t, err)
	assert.Contains(t, raw, `"project":"apitest"`)
	assert.Contains(t, raw, is.ID)
	assert.Zero(t, mr.TTL("issues:project:apitest"))
}

func TestStore_CorruptDocument(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	require.NoError(t, mr.Set("issues:project:bad", "{not json"))

	_, err := store.Get(ctx, "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = store.Append(ctx, "bad", domain.Issue{IssueTitle: "T"})
	assert.Error(t, err)
}

func TestStore_PingFailsWhenServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewStore(client)

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
