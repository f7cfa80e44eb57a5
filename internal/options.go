package internal

import "log/slog"

// FlushMode controls when queued watchers run.
type FlushMode int

const (
	// FlushSync flushes at the end of each write, or of the outermost batch.
	FlushSync FlushMode = iota
	// FlushManual only flushes when Runtime.Flush is called by the host.
	FlushManual
)

const defaultRecursionLimit = 100

type Config struct {
	Logger         *slog.Logger
	Equal          EqualFunc
	Observers      []Observer
	FlushMode      FlushMode
	RecursionLimit int
}

type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Logger:         slog.New(slog.DiscardHandler),
		Equal:          Identical,
		FlushMode:      FlushSync,
		RecursionLimit: defaultRecursionLimit,
	}
}

// WithLogger sets the structured logger of the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithEquality sets the default equality used to skip redundant writes.
func WithEquality(fn EqualFunc) Option {
	return func(c *Config) {
		if fn != nil {
			c.Equal = fn
		}
	}
}

// WithObserver adds an observer notified of the runtime activity.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o != nil {
			c.Observers = append(c.Observers, o)
		}
	}
}

func WithFlushMode(mode FlushMode) Option {
	return func(c *Config) {
		c.FlushMode = mode
	}
}

// WithRecursionLimit sets how many times a single watcher may run in one flush.
func WithRecursionLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.RecursionLimit = n
		}
	}
}
