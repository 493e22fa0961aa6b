// Package logger provides the structured, levelled logger used across
// Lidosole, built on log/slog.
//
// Handlers are chosen by APP_ENV: JSON in production (for log shippers),
// text in development. WithCtx returns a logger pre-tagged with the
// request ID injected by the logging middleware, so every line emitted
// from a handler or service is correlated:
//
//	log := logger.WithCtx(ctx)
//	log.Info("reservation created", "umbrella", "A1")
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/lidosole/lidosole/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if uri := config.LogMongoURI(); uri != "" {
		if mh, err := NewMongoHandler(uri, config.LogMongoDB(), "logs"); err == nil {
			handler = Tee(handler, mh)
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey stores the per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base
// logger when the request has no logging middleware in front of it.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a request-scoped logger into ctx. Called by the logging
// middleware; application code normally only reads via WithCtx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level with the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level with the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level with the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level with the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
