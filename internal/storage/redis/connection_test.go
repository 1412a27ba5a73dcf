package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuetracker/issue-tracker-backend/config"
)

func TestNewClient(t *testing.T) {
	t.Run("connects to a live server", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		client, err := NewClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("fails when the server is gone", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = NewClient(context.Background(), &config.RedisConfig{Addr: addr})
		assert.Error(t, err)
	})
}
