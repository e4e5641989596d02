package logger

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Logger is a zerolog logger that takes map fields.
type Logger struct {
	zl zerolog.Logger
}

// New builds a logger writing to cfg.Output.
func New(cfg *Config, service string) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	return NewWithWriter(cfg, service, out)
}

// NewWithWriter builds a logger writing to out. An unknown level logs at info.
func NewWithWriter(cfg *Config, service string, out io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if cfg.Format == FormatConsole || cfg.Format == FormatPretty {
		zl = zerolog.New(consoleWriter(out, service, cfg.NoColor))
	} else {
		zl = zerolog.New(out).With().Str("service", service).Logger()
	}

	zc := zl.Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger()}
}

// Nop discards everything.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

// WithComponent tags every line with component=name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.zl.Error(), msg, fields) }

func emit(ev *zerolog.Event, msg string, fields []map[string]any) {
	for _, m := range fields {
		ev.Fields(m)
	}
	ev.Msg(msg)
}

var global atomic.Pointer[Logger]

// Init builds the process logger from cfg, installs it as the package
// default and as zerolog's global logger, and returns it.
func Init(cfg Config, service string) *Logger {
	cfg.ApplyDefaults()
	l := New(&cfg, service)
	global.Store(l)
	zlog.Logger = l.zl
	return l
}

// Default is the logger installed by Init, or a console logger at info
// before Init runs.
func Default() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	cfg := Config{}
	cfg.ApplyDefaults()
	l := New(&cfg, "")
	global.CompareAndSwap(nil, l)
	return global.Load()
}

// Info logs on the Default logger.
func Info(msg string, fields ...map[string]any) { Default().Info(msg, fields...) }
