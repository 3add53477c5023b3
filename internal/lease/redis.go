package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "benchwatch:lease:judge:"

// Redis implements Lease on a shared Redis instance so leases hold across
// concurrent invocations on different hosts.
type Redis struct {
	client *redis.Client
	owner  string
}

// NewRedis builds a Redis-backed lease. The owner tag identifies this
// process in the lease value for debugging; it has no protocol meaning.
func NewRedis(client *redis.Client, owner string) *Redis {
	return &Redis{client: client, owner: owner}
}

func (r *Redis) Acquire(ctx context.Context, externalID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, keyPrefix+externalID, r.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", externalID, err)
	}
	return ok, nil
}

func (r *Redis) Release(ctx context.Context, externalID string) error {
	if err := r.client.Del(ctx, keyPrefix+externalID).Err(); err != nil {
		return fmt.Errorf("release lease %s: %w", externalID, err)
	}
	return nil
}
