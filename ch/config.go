package ch

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type Config struct {
	// clickhouse connection config
	Hosts       []string      `mapstructure:"hosts"`
	Database    string        `mapstructure:"database"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Debug       bool          `mapstructure:"debug"`
	// clickhouse settings (https://clickhouse.com/docs/zh/operations/settings/settings)
	Settings clickhouse.Settings `mapstructure:"settings"`
}

func DefaultConfig() *Config {
	return &Config{
		Database:    "default",
		DialTimeout: 10 * time.Second,
		Debug:       false,
	}
}

func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return ErrInvalidConfig("hosts are required")
	}
	if c.Username == "" {
		return ErrInvalidConfig("username is required")
	}
	if c.Password == "" {
		return ErrInvalidConfig("password is required")
	}
	return nil
}

// MergeDefaults fills unset fields from the default config
func (c *Config) MergeDefaults() {
	defaults := DefaultConfig()
	if c.Database == "" {
		c.Database = defaults.Database
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaults.DialTimeout
	}
}
