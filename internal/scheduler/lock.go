package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultLockPrefix namespaces the job locks in redis.
const DefaultLockPrefix = "dms:lock:"

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker takes job locks with SET NX PX.
type RedisLocker struct {
	rdb    redis.UniversalClient
	prefix string
	token  func() string
}

// NewRedisLocker creates a locker, an empty prefix uses DefaultLockPrefix.
func NewRedisLocker(rdb redis.UniversalClient, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = DefaultLockPrefix
	}

	return &RedisLocker{rdb: rdb, prefix: prefix, token: uuid.NewString}
}

// Acquire takes the lock of name for ttl.
func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := l.prefix + name
	token := l.token()

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		if err := releaseScript.Run(context.WithoutCancel(ctx), l.rdb, []string{key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("lock", key).Msg("job lock release failed")
		}
	}

	return release, true, nil
}
