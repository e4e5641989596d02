package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/authgate/logger"
)

// DB is an open gorm handle with an idempotent Close.
type DB struct {
	*gorm.DB
	log       *logger.Logger
	closeOnce sync.Once
	closeErr  error
}

// Dialector picks the gorm driver for cfg.Driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("database: driver %q not supported", cfg.Driver)
}

// Open connects and pings, making up to cfg.MaxRetries attempts with a
// linearly growing pause. ctx bounds the whole sequence.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{Logger: newQueryLog(log, cfg), TranslateError: true}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("database: connect canceled: %w", err)
		}
		gdb, openErr := gorm.Open(dialector, gcfg)
		if openErr == nil {
			openErr = tunePool(ctx, gdb, cfg)
		}
		if openErr == nil {
			log.Info("Database connected", logger.Fields("driver", cfg.Driver, "attempt", attempt))
			return &DB{DB: gdb, log: log}, nil
		}
		if attempt >= cfg.MaxRetries {
			return nil, fmt.Errorf("database: %d connect attempts failed: %w", attempt, openErr)
		}

		pause := time.Duration(attempt) * time.Second
		log.Warn("Database connect failed, retrying", logger.Fields(
			"attempt", attempt, "backoff", pause.String(), logger.FieldError, openErr.Error()))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database: connect canceled: %w", ctx.Err())
		case <-time.After(pause):
		}
	}
}

func tunePool(ctx context.Context, gdb *gorm.DB, cfg Config) error {
	pool, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := pool.PingContext(ctx); err != nil {
		return err
	}
	if cfg.Driver == DriverSQLite && strings.Contains(cfg.DSN, ":memory:") {
		// every new sqlite connection to :memory: opens an empty database
		pool.SetMaxOpenConns(1)
		pool.SetMaxIdleConns(1)
		return nil
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return nil
}

// Ping checks the connection pool.
func (d *DB) Ping(ctx context.Context) error {
	pool, err := d.DB.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// Migrate creates or alters the tables for models.
func (d *DB) Migrate(models ...any) error {
	for _, m := range models {
		if err := d.DB.AutoMigrate(m); err != nil {
			return fmt.Errorf("database: migrate %T: %w", m, err)
		}
	}
	d.log.Info("Schema migrated", logger.Fields("models", len(models)))
	return nil
}

// Close releases the pool. Later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		pool, err := d.DB.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("Closing database")
		d.closeErr = pool.Close()
	})
	return d.closeErr
}
