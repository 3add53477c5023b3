package lease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAcquireRelease(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	acquired, err := mem.Acquire(ctx, "j01", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = mem.Acquire(ctx, "j01", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired, "a held lease is not granted twice")

	acquired, err = mem.Acquire(ctx, "j02", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "leases are per external id")

	require.NoError(t, mem.Release(ctx, "j01"))
	acquired, err = mem.Acquire(ctx, "j01", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "released leases are available again")
}

func TestMemoryAcquireExpiredLease(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	acquired, err := mem.Acquire(ctx, "j01", -time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = mem.Acquire(ctx, "j01", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "an expired lease does not block a new holder")
}

func TestMemoryAcquireErrInjection(t *testing.T) {
	mem := NewMemory()
	want := errors.New("injected")
	mem.AcquireErr = want

	_, err := mem.Acquire(context.Background(), "j01", time.Minute)
	assert.ErrorIs(t, err, want)
}

func TestReleaseUnheldLease(t *testing.T) {
	mem := NewMemory()
	assert.NoError(t, mem.Release(context.Background(), "never-held"))
}
