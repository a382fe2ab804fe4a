package invite_test

import (
	"testing"
	"time"

	"github.com/rsvp-platform/event-manager/pkg/invite"
	"github.com/rsvp-platform/event-manager/pkg/inttest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLock(t *testing.T) {
	client := inttest.SetupRedis(t)
	lock := invite.NewRedisLock(client)

	token, ok, err := lock.Acquire("invite:event:1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("HeldLockIsNotAcquired", func(t *testing.T) {
		_, ok, err := lock.Acquire("invite:event:1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("OtherKeyIsAcquired", func(t *testing.T) {
		other, ok, err := lock.Acquire("invite:event:2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, lock.Release("invite:event:2", other))
	})

	t.Run("ReleaseWithWrongTokenKeepsLock", func(t *testing.T) {
		require.NoError(t, lock.Release("invite:event:1", "someone-else"))

		_, ok, err := lock.Acquire("invite:event:1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Release", func(t *testing.T) {
		require.NoError(t, lock.Release("invite:event:1", token))

		again, ok, err := lock.Acquire("invite:event:1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotEqual(t, token, again)
	})
}
