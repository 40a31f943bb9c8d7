// Package throttle rate-limits reminder emails: at most one reminder per
// referent per configured window, shared across instances.
package throttle

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	id "ndoors/pkg/domain"
)

const remindKeyPrefix = "remind:referent:"

// Redis is the production throttle. SETNX-with-expiry makes the
// check-and-claim atomic, so concurrent remind calls across instances
// produce exactly one email per window.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed reminder throttle.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Acquire claims the reminder slot for a referent. It returns false when a
// reminder already went out inside the window.
func (t *Redis) Acquire(ctx context.Context, referentID id.ReferentID, window time.Duration) (bool, error) {
	key := remindKeyPrefix + referentID.String()
	return t.client.SetNX(ctx, key, "1", window).Result()
}
