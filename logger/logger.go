package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger is a zerolog.Logger that remembers which service it belongs to.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// New writes to stdout or stderr as cfg.Output says.
func New(cfg *Config, serviceName string) *Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return NewWithWriter(cfg, serviceName, w)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && cfg.Level != "" {
		level = parsed
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	base := zerolog.New(w)
	if isConsole(cfg.Format) {
		base = zerolog.New(consoleWriter(cfg, serviceName, w))
	}
	zc := base.Level(level).With()
	if serviceName != "" && serviceName != "default" {
		zc = zc.Str(FieldService, serviceName)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger(), service: serviceName}
}

// NewDefault is an info-level console logger on stdout.
func NewDefault(serviceName string) *Logger {
	cfg := Config{}
	cfg.ApplyDefaults()
	return New(&cfg, serviceName)
}

// NewNop discards everything.
func NewNop() *Logger { return &Logger{zl: zerolog.Nop()} }

func (l *Logger) derive(add func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zl: add(l.zl.With()).Logger(), service: l.service}
}

// WithContext adds the request id, the chat and user a pipeline runs for,
// and the active trace id.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context {
		if id := RequestIDFromContext(ctx); id != "" {
			zc = zc.Str(FieldRequestID, id)
		}
		if chat, ok := ctx.Value(chatIDKey).(int64); ok {
			zc = zc.Int64(FieldChatID, chat)
		}
		if user, ok := ctx.Value(userIDKey).(int64); ok {
			zc = zc.Int64(FieldUserID, user)
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			zc = zc.Str(FieldTraceID, sc.TraceID().String())
		}
		return zc
	})
}

func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context { return zc.Str(FieldComponent, name) })
}

func (l *Logger) WithError(err error) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context { return zc.Err(err) })
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { write(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { write(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { write(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { write(l.zl.Error(), msg, fields) }

// write tolerates the nil event zerolog returns for a disabled level.
func write(ev *zerolog.Event, msg string, fields []map[string]any) {
	if ev == nil {
		return
	}
	for _, m := range fields {
		ev.Fields(m)
	}
	ev.Msg(msg)
}

type contextKey int

const (
	requestIDKey contextKey = iota
	chatIDKey
	userIDKey
)

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithChat records which chat and sender the work is for.
func ContextWithChat(ctx context.Context, chatID, userID int64) context.Context {
	return context.WithValue(context.WithValue(ctx, chatIDKey, chatID), userIDKey, userID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
