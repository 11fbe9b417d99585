// Package redisstore serves paginated reads over record lists kept in
// Redis. Records are stored as JSON documents in a Redis list, one list
// per dataset, and pages are cut with LRANGE so only the requested slice
// crosses the wire.
package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
)

// NewClient creates a Redis client and verifies connectivity
func NewClient(log logger.Logger, config *RedisConfig) (*redis.Client, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	config = config.MergeDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	client := redis.NewClient(config.Options())

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, ErrConnection(err)
	}

	log.Info("redis client initialized",
		zap.String("addr", config.Addr),
		zap.Int("db", config.DB),
	)

	return client, nil
}
