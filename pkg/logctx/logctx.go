package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey string

const (
	loggerKey  ctxKey = "logger"
	traceIDKey ctxKey = "traceID"

	// GinLoggerKey and GinTraceIDKey are the gin.Context keys set by the middleware.
	GinLoggerKey  = "logger"
	GinTraceIDKey = "traceID"
)

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithTraceID returns a copy of ctx carrying the request trace id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the trace id stored in ctx, or "".
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if tid, ok := ctx.Value(traceIDKey).(string); ok {
		return tid
	}
	return ""
}

// FromGin returns a request-scoped logger from gin.Context if present,
// otherwise returns the provided base logger.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(GinLoggerKey); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	// fall back to ctx-based enrichment
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise attempts to enrich
// base with trace_id from context values.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	if tid := TraceID(ctx); tid != "" {
		return base.With("trace_id", tid)
	}
	return base
}
