package bootstrap

import (
	"io"
	"os"
	"syscall"
	"time"

	"github.com/kbukum/authgate/logger"
)

const defaultGrace = 15 * time.Second

// Option tunes an App before it is built.
type Option func(*settings)

type settings struct {
	log     *logger.Logger
	grace   time.Duration
	summary io.Writer
	signals []os.Signal
}

func newSettings(opts []Option) settings {
	s := settings{
		grace:   defaultGrace,
		summary: os.Stdout,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger replaces the logger that would otherwise be built from the
// logging section of the config.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the shutdown sequence. Non-positive values are
// ignored.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithSummaryOutput sends the startup summary to w. io.Discard silences it.
func WithSummaryOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.summary = w
		}
	}
}

// WithSignals overrides the signals that trigger shutdown.
func WithSignals(sig ...os.Signal) Option {
	return func(s *settings) { s.signals = sig }
}
