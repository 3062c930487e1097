package ratelimit

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

// RedisCounter keeps windows in redis so several API instances share limits.
type RedisCounter struct {
	client rueidis.Client
	prefix string
}

func NewRedisCounter(client rueidis.Client, keyPrefix string) *RedisCounter {
	return &RedisCounter{
		client: client,
		prefix: keyPrefix,
	}
}

// Increment creates the key with its TTL before counting, in one pipeline,
// so a key that exists always expires. INCR keeps the TTL set by SET.
func (r *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := r.prefix + ":" + key

	resps := r.client.DoMulti(ctx,
		r.client.B().Set().Key(redisKey).Value("0").Nx().PxMilliseconds(window.Milliseconds()).Build(),
		r.client.B().Incr().Key(redisKey).Build(),
	)

	// SET NX answers nil when the window is already open
	if err := resps[0].Error(); err != nil && !rueidis.IsRedisNil(err) {
		return 0, err
	}
	return resps[1].AsInt64()
}
