package ch

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
)

// defaultClient is the default implementation of the Client interface
type defaultClient struct {
	config *Config
	logger logger.Logger

	conn driver.Conn

	closed bool
	mu     sync.RWMutex
}

// NewClient creates a new ClickHouse client
func NewClient(config *Config, log logger.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.MergeDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: config.Hosts,
		Auth: clickhouse.Auth{
			Database: config.Database,
			Username: config.Username,
			Password: config.Password,
		},
		DialTimeout: config.DialTimeout,
		Debug:       config.Debug,
		Settings:    config.Settings,
	})
	if err != nil {
		return nil, ErrConnection(err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, ErrConnection(err)
	}

	client := &defaultClient{
		config: config,
		logger: log,
		conn:   conn,
	}

	log.Info("clickhouse client initialized",
		zap.Strings("hosts", config.Hosts),
		zap.String("database", config.Database),
	)

	return client, nil
}

// Query executes a ClickHouse query and returns driver.Rows
func (c *defaultClient) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClientClosed
	}

	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		c.logger.Error("query failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, err
	}

	return rows, nil
}

// QueryRow executes a query that is expected to return at most one row
func (c *defaultClient) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.conn.QueryRow(ctx, query, args...)
}

// Close closes the client and the underlying connection
func (c *defaultClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.conn.Close(); err != nil {
		c.logger.Error("failed to close clickhouse connection", zap.Error(err))
		return err
	}

	c.logger.Info("clickhouse client closed")
	return nil
}
