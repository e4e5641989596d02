package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/authgate/component"
	"github.com/kbukum/authgate/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component manages the lifecycle of a Client. The client is built eagerly
// so stores can be wired to it before the registry starts anything; Start
// only checks that the server answers.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
}

func NewComponent(cfg Config, log *logger.Logger) (*Component, error) {
	cfg.ApplyDefaults()
	log = log.WithComponent("redis")
	client, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Component{cfg: cfg, log: log, client: client}, nil
}

func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

func (c *Component) Start(ctx context.Context) error {
	if err := c.client.Ping(ctx); err != nil {
		return fmt.Errorf("redis %s: %w", c.cfg.Addr, err)
	}
	c.log.Info("Connected", logger.Fields("addr", c.cfg.Addr, "db", c.cfg.DB))
	return nil
}

func (c *Component) Stop(context.Context) error { return c.client.Close() }

func (c *Component) Health(ctx context.Context) component.Health {
	err := c.client.Ping(ctx)
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	details := []string{c.cfg.Addr, fmt.Sprintf("db=%d", c.cfg.DB), fmt.Sprintf("pool=%d", c.cfg.PoolSize)}
	if c.cfg.TLS.Enabled {
		details = append(details, "tls")
	}
	return component.Description{Name: "Redis", Type: "redis", Details: strings.Join(details, " ")}
}
