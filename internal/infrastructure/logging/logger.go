package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = "request_id"
	// OperatorKey is the context key for the authenticated admin operator
	OperatorKey contextKey = "operator"
	// VariantKey is the context key for the dashboard variant being served
	VariantKey contextKey = "variant"
)

// contextKeys are copied onto every record in this order.
var contextKeys = []contextKey{RequestIDKey, OperatorKey, VariantKey}

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	Output      io.Writer
	AddSource   bool
	ServiceName string
	Environment string
}

// NewLogger creates a structured logger that stamps every record with the
// service metadata and the request values carried by the context.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(a.Key, a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(&contextHandler{
		Handler: handler.WithAttrs([]slog.Attr{
			slog.String("service", cfg.ServiceName),
			slog.String("environment", cfg.Environment),
		}),
	})
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// contextHandler adds the request values found in the context.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithOperator adds the admin operator name to the context
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, OperatorKey, operator)
}

// WithVariant adds a dashboard variant name to the context
func WithVariant(ctx context.Context, variant string) context.Context {
	return context.WithValue(ctx, VariantKey, variant)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// LoggerFromContext binds the context's request values to logger, for code
// that logs without passing the context along.
func LoggerFromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := contextAttrs(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return logger.With(args...)
}

// LogPanic logs panic information and stack trace
func LogPanic(logger *slog.Logger, panicValue any) {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	logger.Error("panic recovered",
		"panic", panicValue,
		"stack_trace", string(buf[:n]),
	)
}

// Request describes one served HTTP request.
type Request struct {
	Method    string
	Path      string
	Route     string // matched route pattern, empty when nothing matched
	Status    int
	Duration  time.Duration
	Bytes     int64
	ClientIP  string
	UserAgent string
}

// LogRequest writes an access log line. Server errors log at error, client
// errors at warn. Health probes log at debug so they do not drown the
// dashboard traffic.
func LogRequest(ctx context.Context, logger *slog.Logger, req Request) {
	level := slog.LevelInfo
	switch {
	case req.Status >= 500:
		level = slog.LevelError
	case req.Status >= 400:
		level = slog.LevelWarn
	case strings.HasPrefix(req.Path, "/health"):
		level = slog.LevelDebug
	}

	logger.Log(ctx, level, "http request",
		"method", req.Method,
		"path", req.Path,
		"route", req.Route,
		"status_code", req.Status,
		"duration_ms", req.Duration.Milliseconds(),
		"bytes_written", req.Bytes,
		"client_ip", req.ClientIP,
		"user_agent", req.UserAgent,
	)
}
