package inttest

import (
	"testing"

	"github.com/go-redis/redis"
	"github.com/orlangure/gnomock"
	gnomockRedis "github.com/orlangure/gnomock/preset/redis"
	"github.com/stretchr/testify/require"
)

func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()
	skipUnlessEnabled(t)

	container, err := gnomock.Start(gnomockRedis.Preset())
	require.NoError(t, err, "failed to start Redis")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop Redis") })

	client := redis.NewClient(&redis.Options{
		Addr: container.DefaultAddress(),
		DB:   0,
	})
	t.Cleanup(func() { require.NoError(t, client.Close(), "failed to close Redis client") })
	return client
}
