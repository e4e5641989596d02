package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/authgate/logger"
)

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

// queryLog sends gorm output to the service logger. A lookup miss or a
// duplicate username is a normal store answer, so neither counts as a
// failed query.
type queryLog struct {
	log   *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

var _ gormlogger.Interface = queryLog{}

func newQueryLog(log *logger.Logger, cfg Config) queryLog {
	level, ok := gormLevels[cfg.LogLevel]
	if !ok {
		level = gormlogger.Warn
	}
	return queryLog{log: log.WithComponent("gorm"), level: level, slow: cfg.SlowQuery}
}

func (q queryLog) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	q.level = level
	return q
}

func (q queryLog) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.log.WithContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (q queryLog) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.log.WithContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (q queryLog) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.log.WithContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (q queryLog) Trace(ctx context.Context, begin time.Time, statement func() (string, int64), err error) {
	if q.level == gormlogger.Silent {
		return
	}
	took := time.Since(begin)
	failed := err != nil && !IsNotFound(err) && !IsDuplicate(err)
	slow := q.slow > 0 && took > q.slow
	if !failed && !slow && q.level < gormlogger.Info {
		return
	}

	sql, rows := statement()
	fields := logger.Fields("sql", sql, "rows", rows, logger.FieldDuration, took.Milliseconds())
	l := q.log.WithContext(ctx)
	switch {
	case failed:
		fields[logger.FieldError] = err.Error()
		l.Error("Query failed", fields)
	case slow:
		l.Warn("Slow query", fields)
	default:
		l.Debug("Query", fields)
	}
}

// IsNotFound reports a First/Take that matched no row.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// IsDuplicate reports a unique-index violation. Open enables
// TranslateError, so this holds for both drivers.
func IsDuplicate(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }
