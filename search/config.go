package search

// Config holds configuration for the search orchestrator
type Config struct {
	// ServerSearchLimit caps how many records an escalated server search
	// fetches in its single page
	// default: 1000
	ServerSearchLimit int `mapstructure:"server_search_limit"`
}

// DefaultConfig returns the default configuration for the search orchestrator
func DefaultConfig() *Config {
	return &Config{
		ServerSearchLimit: 1000,
	}
}

// MergeDefaults fills zero fields with default values and returns the
// merged configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.ServerSearchLimit == 0 {
		c.ServerSearchLimit = defaults.ServerSearchLimit
	}
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ServerSearchLimit < 1 {
		return ErrInvalidServerSearchLimit(c.ServerSearchLimit)
	}
	return nil
}
