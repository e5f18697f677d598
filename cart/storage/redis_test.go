package storage

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupStorage(t *testing.T) (*Redis, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	c := context.Background()
	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	connStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	opt, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	teardown := func() {
		client.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
	return NewRedis(client, time.Hour), teardown
}

func TestRedisStorage(t *testing.T) {
	store, teardown := setupStorage(t)
	defer teardown()
	c := context.Background()

	t.Run("given missing snapshot should return no snapshot", func(t *testing.T) {
		_, err := store.Load(c, "cart-1")
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("given saved snapshot should load it back", func(t *testing.T) {
		snapshot := []byte(`{"id":"cart-1","items":[]}`)
		require.NoError(t, store.Save(c, "cart-1", snapshot))

		loaded, err := store.Load(c, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, snapshot, loaded)
	})

	t.Run("given deleted snapshot should be gone", func(t *testing.T) {
		require.NoError(t, store.Delete(c, "cart-1"))

		_, err := store.Load(c, "cart-1")
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("given delete of absent snapshot should not fail", func(t *testing.T) {
		assert.NoError(t, store.Delete(c, "never-existed"))
	})
}
