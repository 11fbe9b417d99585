package redisstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection configuration
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// DefaultRedisConfig returns the default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:        "localhost:6379",
		DB:          0,
		PoolSize:    10,
		DialTimeout: 5 * time.Second,
	}
}

// MergeDefaults fills unset fields from the default config
func (c *RedisConfig) MergeDefaults() *RedisConfig {
	defaults := DefaultRedisConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.PoolSize == 0 {
		c.PoolSize = defaults.PoolSize
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaults.DialTimeout
	}
	return c
}

// Validate validates the configuration
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return ErrInvalidConfig("addr is required")
	}
	if c.DB < 0 {
		return ErrInvalidConfig("db cannot be negative")
	}
	if c.PoolSize < 0 {
		return ErrInvalidConfig("pool_size cannot be negative")
	}
	if c.DialTimeout < 0 {
		return ErrInvalidConfig("dial_timeout cannot be negative")
	}
	return nil
}

// Options converts the config to go-redis options
func (c *RedisConfig) Options() *redis.Options {
	return &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: c.DialTimeout,
	}
}
