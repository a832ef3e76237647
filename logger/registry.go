package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

var (
	global atomic.Pointer[Logger]
	named  sync.Map // string -> *Logger
)

// Init replaces the global logger with one built from cfg.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	global.Store(New(&cfg, "default"))
}

func SetGlobalLogger(l *Logger) { global.Store(l) }

// GetGlobalLogger falls back to NewDefault until Init runs.
func GetGlobalLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, NewDefault("default"))
	return global.Load()
}

func Debug(msg string, fields ...map[string]any) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { GetGlobalLogger().Info(msg, fields...) }

func WithContext(ctx context.Context) *Logger { return GetGlobalLogger().WithContext(ctx) }

// Register names a logger for later Get calls.
func Register(name string, l *Logger) { named.Store(name, l) }

// Get returns the logger registered as name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
