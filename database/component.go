package database

import (
	"context"
	"fmt"

	"github.com/kbukum/authgate/component"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/util"
)

// Component opens the database on Start and closes it on Stop. Models
// passed to WithAutoMigrate are migrated when cfg.AutoMigrate is set.
type Component struct {
	cfg    Config
	log    *logger.Logger
	models []any
	db     *DB
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

func (c *Component) WithAutoMigrate(models ...any) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB is nil until Start succeeds.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := db.Migrate(c.models...); err != nil {
			_ = db.Close()
			return err
		}
	}
	c.db = db
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.db == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not connected"
	default:
		if err := c.db.Ping(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, "ping: "+err.Error()
		}
	}
	return h
}

func (c *Component) Describe() component.Description {
	d := component.Description{
		Name: "Database",
		Type: "database",
		Details: fmt.Sprintf("%s %s pool=%d/%d", c.cfg.Driver,
			util.MaskSecret(c.cfg.DSN, 11), c.cfg.MaxOpenConns, c.cfg.MaxIdleConns),
	}
	if c.cfg.AutoMigrate {
		d.Details += " auto-migrate=on"
	}
	return d
}
