package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another holder is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every instance pointed at the same server.
type Redis struct {
	client *redis.Client
	log    logrus.FieldLogger
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

func NewRedis(client *redis.Client, log logrus.FieldLogger) *Redis {
	return &Redis{
		client: client,
		log:    log,
		prefix: "shop:lock:",
		ttl:    10 * time.Second,
		retry:  25 * time.Millisecond,
		wait:   DefaultWait,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	redisKey := r.prefix + key
	token := uuid.NewString()
	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, busy(key)
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, busy(key)
		case <-time.After(r.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err(); err != nil {
				r.log.WithError(err).WithField("key", key).Warn("Failed to release lock")
			}
		})
	}, nil
}
