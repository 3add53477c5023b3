//go:build integration

package lease

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchwatch/pkg/testutil/containers"
)

func TestRedisLease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)

	hostA := NewRedis(rc.Client, "host-a")
	hostB := NewRedis(rc.Client, "host-b")

	t.Run("acquire excludes other holders", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		acquired, err := hostA.Acquire(ctx, "j01", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)

		acquired, err = hostB.Acquire(ctx, "j01", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired, "the lease is held across processes")

		acquired, err = hostB.Acquire(ctx, "j02", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired, "a different judge id is independent")
	})

	t.Run("release frees the lease", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		acquired, err := hostA.Acquire(ctx, "j01", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		require.NoError(t, hostA.Release(ctx, "j01"))

		acquired, err = hostB.Acquire(ctx, "j01", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("ttl expiry frees the lease", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		acquired, err := hostA.Acquire(ctx, "j01", 100*time.Millisecond)
		require.NoError(t, err)
		require.True(t, acquired)

		time.Sleep(200 * time.Millisecond)

		acquired, err = hostB.Acquire(ctx, "j01", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired, "an abandoned lease expires on its own")
	})
}
