package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ConnectRedis establishes connection to Redis. It returns nil when the
// server is unreachable; callers fall back to in-process locking.
func ConnectRedis(ctx context.Context, cfg *Config, log logrus.FieldLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.WithError(err).Warn("Redis connection failed, cart locks will be process-local")
		client.Close()
		return nil
	}

	log.Info("Connected to Redis")
	return client
}
