package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		conf := core.NewTestConfig()
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		assert.False(t, store.Demo())
		assert.NoError(t, store.Listings.Ping(ctx))
		assert.NoError(t, store.Close(ctx))
	})

	t.Run("demo", func(t *testing.T) {
		conf := core.NewTestConfig()
		conf.Database.Engine = core.EngineNone
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		assert.True(t, store.Demo())
		assert.Equal(t, core.ErrStoreNotConfigured, store.Listings.Ping(ctx))
		assert.NoError(t, store.Close(ctx))
	})

	t.Run("unknown engine", func(t *testing.T) {
		conf := core.NewTestConfig()
		conf.Database.Engine = "cassandra"
		_, err := Open(ctx, conf)
		assert.Error(t, err)
	})
}
