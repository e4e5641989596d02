package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/authgate/logger"
)

// Client is the subset of go-redis the user store needs, plus key
// namespacing. Nothing is dialed until the first command.
type Client struct {
	rdb       *goredis.Client
	log       *logger.Logger
	prefix    string
	closeOnce sync.Once
	closeErr  error
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	tlsConf, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("redis: tls: %w", err)
	}

	opts := &goredis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxRetries:      cfg.MaxRetries,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		TLSConfig:       tlsConf,
	}
	log.Debug("Redis client configured", logger.Fields("addr", cfg.Addr, "db", cfg.DB, "tls", tlsConf != nil))
	return &Client{rdb: goredis.NewClient(opts), log: log, prefix: cfg.KeyPrefix}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Get returns the value at key; a missing key yields an error for which
// IsNil is true.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// SetNX writes value only when key is absent. Redis applies it atomically,
// so of several racing callers exactly one sees true.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// Key builds "<prefix>:<part>:<part>...". An empty prefix is skipped.
func (c *Client) Key(parts ...string) string {
	if c.prefix != "" {
		parts = append([]string{c.prefix}, parts...)
	}
	return strings.Join(parts, ":")
}

// IsNil reports a missing key.
func IsNil(err error) bool { return errors.Is(err, goredis.Nil) }

// Close shuts the pool once; later calls return the first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.log.Info("Closing Redis connection")
		c.closeErr = c.rdb.Close()
	})
	return c.closeErr
}
