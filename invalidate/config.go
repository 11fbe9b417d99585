package invalidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Config is the configuration for the invalidation listener
type Config struct {
	// kafka connection config
	Brokers []string `mapstructure:"brokers"`
	GroupID string   `mapstructure:"group_id"`
	Topics  []string `mapstructure:"topics"`

	// Auto offset reset policy: "earliest" or "latest"
	// Invalidation events are only useful while fresh, so the default
	// skips any backlog accumulated while the listener was down.
	// default: "latest"
	AutoOffsetReset string `mapstructure:"auto_offset_reset"`

	// Session timeout
	// default: 30s
	SessionTimeout time.Duration `mapstructure:"session_timeout"`

	// Max poll interval - maximum time between two polls
	// default: 120s
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval"`

	// Security protocol: "PLAINTEXT", "SASL_PLAINTEXT", "SASL_SSL"
	// only support PLAINTEXT for now
	// default: "PLAINTEXT"
	SecurityProtocol string `mapstructure:"security_protocol"`

	// Debug - enable consumer debug logs
	Debug bool `mapstructure:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		AutoOffsetReset:  "latest",
		SessionTimeout:   30 * time.Second,
		MaxPollInterval:  120 * time.Second,
		SecurityProtocol: "PLAINTEXT",
		Debug:            false,
	}
}

// MergeDefaults fills unset fields from the default config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.AutoOffsetReset == "" {
		c.AutoOffsetReset = defaults.AutoOffsetReset
	}
	if c.SessionTimeout == 0 {
		c.SessionTimeout = defaults.SessionTimeout
	}
	if c.MaxPollInterval == 0 {
		c.MaxPollInterval = defaults.MaxPollInterval
	}
	if c.SecurityProtocol == "" {
		c.SecurityProtocol = defaults.SecurityProtocol
	}
	return c
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrInvalidConfig("brokers are required")
	}
	if c.GroupID == "" {
		return ErrInvalidConfig("group_id is required")
	}
	if len(c.Topics) == 0 {
		return ErrInvalidConfig("topics are required")
	}

	if c.AutoOffsetReset != "earliest" && c.AutoOffsetReset != "latest" {
		return ErrInvalidConfig(
			fmt.Sprintf("invalid auto_offset_reset: %s, must be either 'earliest' or 'latest'", c.AutoOffsetReset),
		)
	}

	if c.SessionTimeout <= 0 {
		return ErrInvalidConfig("session_timeout must be greater than 0")
	}

	if c.MaxPollInterval <= 0 {
		return ErrInvalidConfig("max_poll_interval must be greater than 0")
	}

	return nil
}

func (c *Config) BuildConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers":    strings.Join(c.Brokers, ","),
		"group.id":             c.GroupID,
		"auto.offset.reset":    strings.ToLower(c.AutoOffsetReset),
		"enable.auto.commit":   true,
		"session.timeout.ms":   int(c.SessionTimeout.Milliseconds()),
		"max.poll.interval.ms": int(c.MaxPollInterval.Milliseconds()),
		"security.protocol":    c.SecurityProtocol,
	}

	if c.Debug {
		_ = configMap.SetKey("debug", "consumer,cgrp,topic,fetch")
	}

	return configMap
}
