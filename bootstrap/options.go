package bootstrap

import (
	"io"
	"os"
	"time"

	"github.com/kbukum/voicemention/logger"
)

const defaultGracefulTimeout = 15 * time.Second

type settings struct {
	log             *logger.Logger
	gracefulTimeout time.Duration
	summaryOut      io.Writer
}

type Option func(*settings)

// WithLogger skips building a logger from the config's logging block.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the whole shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.gracefulTimeout = d }
}

// WithSummaryOutput sends the startup summary somewhere other than stdout.
func WithSummaryOutput(w io.Writer) Option {
	return func(s *settings) { s.summaryOut = w }
}

func collect(opts []Option) settings {
	s := settings{gracefulTimeout: defaultGracefulTimeout, summaryOut: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
