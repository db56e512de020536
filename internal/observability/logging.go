// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger so observability helpers can hang methods off it.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the package default, JSON to stdout.
var GlobalLogger = &Logger{
	Logger: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})),
}

// LogContextKey is the key type for values this package stores in contexts.
type LogContextKey string

// CorrelationID keys the identifier that ties together all log lines of one
// websocket connection.
const CorrelationID LogContextKey = "correlation_id"

// GenerateCorrelationID returns a fresh correlation identifier.
func GenerateCorrelationID() string {
	return uuid.New().String()
}

// WithCorrelationID stores id in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID reads the correlation ID back out, empty if unset.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// WSLogger logs websocket lifecycle events for one hub with a consistent
// attribute shape.
type WSLogger struct {
	hubName string
	logger  *Logger
}

// NewWSLogger returns a WSLogger scoped to the named hub.
func NewWSLogger(hubName string) *WSLogger {
	return &WSLogger{hubName: hubName, logger: GlobalLogger}
}

func (l *WSLogger) attrs(ctx context.Context, userID uint) []any {
	return []any{
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	}
}

// LogConnect records a connection being accepted.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint) {
	l.logger.InfoContext(ctx, "websocket connected", l.attrs(ctx, userID)...)
}

// LogDisconnect records a connection going away.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	l.logger.InfoContext(ctx, "websocket disconnected",
		append(l.attrs(ctx, userID), slog.String("reason", reason))...)
}

// LogError records a failure tied to one connection.
func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, eventType string) {
	l.logger.ErrorContext(ctx, "websocket error",
		append(l.attrs(ctx, userID),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))...)
}

// LogEvent records an event delivered or published for the user.
func (l *WSLogger) LogEvent(ctx context.Context, userID uint, eventType string) {
	l.logger.InfoContext(ctx, "websocket event",
		append(l.attrs(ctx, userID), slog.String("event_type", eventType))...)
}
