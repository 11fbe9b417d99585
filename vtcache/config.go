package vtcache

// Validation bounds for cache tuning parameters
const (
	minInitialPageSize = 10
	maxInitialPageSize = 1000

	minMaxCachedRecords = 100
	maxMaxCachedRecords = 50000

	minBackgroundPageSize = 100
	maxBackgroundPageSize = 5000
)

// Config holds the immutable tuning parameters of a cache instance.
//
// A Config is a value: it is validated once at construction and never
// mutated afterwards. The With* methods return new validated values,
// leaving the receiver untouched.
type Config struct {
	initialPageSize         int
	maxCachedRecords        int
	backgroundPageSize      int
	enableBackgroundLoading bool
}

// NewConfig creates a validated cache configuration.
// It returns an error naming the violated bound if any parameter is out of
// range or the record ceiling is below the initial page size. No partially
// valid configuration ever exists.
func NewConfig(initialPageSize, maxCachedRecords, backgroundPageSize int, enableBackgroundLoading bool) (Config, error) {
	c := Config{
		initialPageSize:         initialPageSize,
		maxCachedRecords:        maxCachedRecords,
		backgroundPageSize:      backgroundPageSize,
		enableBackgroundLoading: enableBackgroundLoading,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DefaultConfig returns the default cache configuration:
// 100 records on the initial page, a 10000 record ceiling, 500 records per
// background page, background loading enabled.
func DefaultConfig() Config {
	return Config{
		initialPageSize:         100,
		maxCachedRecords:        10000,
		backgroundPageSize:      500,
		enableBackgroundLoading: true,
	}
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.initialPageSize < minInitialPageSize || c.initialPageSize > maxInitialPageSize {
		return ErrInvalidInitialPageSize(c.initialPageSize)
	}
	if c.maxCachedRecords < minMaxCachedRecords || c.maxCachedRecords > maxMaxCachedRecords {
		return ErrInvalidMaxCachedRecords(c.maxCachedRecords)
	}
	if c.backgroundPageSize < minBackgroundPageSize || c.backgroundPageSize > maxBackgroundPageSize {
		return ErrInvalidBackgroundPageSize(c.backgroundPageSize)
	}
	if c.maxCachedRecords < c.initialPageSize {
		return ErrCeilingBelowInitialPageSize(c.maxCachedRecords, c.initialPageSize)
	}
	return nil
}

// InitialPageSize returns the size of the synchronously loaded first page.
func (c Config) InitialPageSize() int { return c.initialPageSize }

// MaxCachedRecords returns the record ceiling the buffer never exceeds.
func (c Config) MaxCachedRecords() int { return c.maxCachedRecords }

// BackgroundPageSize returns the page size used by the background loop.
func (c Config) BackgroundPageSize() int { return c.backgroundPageSize }

// BackgroundLoadingEnabled reports whether the background loop may run.
func (c Config) BackgroundLoadingEnabled() bool { return c.enableBackgroundLoading }

// BackgroundPageCount returns the number of background pages needed to fill
// the cache from the initial page up to the record ceiling. It is 0 when
// background loading is disabled or the ceiling is already reached by the
// initial page.
func (c Config) BackgroundPageCount() int {
	if !c.enableBackgroundLoading {
		return 0
	}
	remaining := c.maxCachedRecords - c.initialPageSize
	if remaining <= 0 {
		return 0
	}
	// ceil(remaining / backgroundPageSize)
	return (remaining + c.backgroundPageSize - 1) / c.backgroundPageSize
}

// MaxLoadableRecords returns the maximum number of records this
// configuration will ever load: the ceiling when background loading is
// enabled, otherwise just the initial page.
func (c Config) MaxLoadableRecords() int {
	if c.enableBackgroundLoading {
		return c.maxCachedRecords
	}
	return c.initialPageSize
}

// WithInitialPageSize returns a copy of the configuration with a new initial
// page size, validated as a whole.
func (c Config) WithInitialPageSize(size int) (Config, error) {
	c.initialPageSize = size
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WithMaxCachedRecords returns a copy of the configuration with a new record
// ceiling, validated as a whole.
func (c Config) WithMaxCachedRecords(max int) (Config, error) {
	c.maxCachedRecords = max
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WithBackgroundLoadingDisabled returns a copy of the configuration with
// background loading turned off.
func (c Config) WithBackgroundLoadingDisabled() Config {
	c.enableBackgroundLoading = false
	return c
}
