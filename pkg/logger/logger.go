// Package logger provides structured logging with request context support.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "fieldops/internal/core/context"
)

// Logger wraps zap.SugaredLogger. Use WithContext to pick up the
// request, user and tenant identifiers carried in the context.
type Logger struct {
	*zap.SugaredLogger
}

// Config holds logger configuration.
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder with colored levels
	OutputPaths []string
}

// New creates a Logger from configuration. Unknown levels fall back to info.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	zl, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{zl.Sugar()}, nil
}

var (
	fallbackOnce sync.Once
	fallback     *Logger
)

// Default returns a shared production logger writing to stdout.
func Default() *Logger {
	fallbackOnce.Do(func() {
		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{"stdout"}
		zl, _ := zc.Build(zap.AddCallerSkip(1))
		fallback = &Logger{zl.Sugar()}
	})
	return fallback
}

// contextFields collects the identifiers the middleware stack put on
// the context. Tenant resolution mirrors appctx.GetTenantID: the
// authenticated user's tenant wins over the header-resolved one.
func contextFields(ctx context.Context) []any {
	var fields []any
	if tc := appctx.GetTrace(ctx); tc != nil {
		fields = append(fields, "trace_id", tc.TraceID, "request_id", tc.RequestID)
	}
	if u := appctx.GetUser(ctx); u != nil {
		fields = append(fields, "user_id", u.UserID)
	}
	if tenant := appctx.GetTenantID(ctx); tenant != "" {
		fields = append(fields, "tenant_id", tenant)
	}
	return fields
}

// WithContext returns a Logger annotated with the request, user and
// tenant identifiers found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if fields := contextFields(ctx); len(fields) > 0 {
		return &Logger{l.SugaredLogger.With(fields...)}
	}
	return l
}

// With adds key-value pairs to the logger.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

// Debug logs at debug level with context fields.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Debugw(msg, keysAndValues...)
}

// Info logs at info level with context fields.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Infow(msg, keysAndValues...)
}

// Warn logs at warn level with context fields.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Warnw(msg, keysAndValues...)
}

// Error logs at error level with context fields.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WithContext(ctx).Errorw(msg, keysAndValues...)
}
