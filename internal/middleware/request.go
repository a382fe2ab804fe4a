package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Attribute keys shared by the RequestLogger and the slog handler adding context values.
const (
	RequestLoggerKeyCorrelationID = "correlationId"
	RequestLoggerKeyUser          = "user"
)

type ctxKey int

var correlationIDKey ctxKey

// CorrelationID is a Gin middleware that adds a generated correlation ID to the
// [http.Request.Context]. An incoming X-Correlation-ID header is reused.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Correlation-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ctx := NewContextWithCorrelationID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Correlation-ID", id)

		c.Next()
	}
}

// NewContextWithCorrelationID returns a new [context.Context] that carries value correlationID.
func NewContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// GetCorrelationID returns the correlation ID stored in the ctx, if any. It had to have been set by
// the [CorrelationID] middleware before.
func GetCorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey).(string)
	return id, ok
}

// RequestLogger logs one line per request once it has been handled. Client errors are logged as
// warnings and server errors as errors, both with the errors collected on the [gin.Context].
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.Group("request",
				slog.String("method", c.Request.Method),
				slog.String("route", c.FullPath()),
				slog.String("path", c.Request.URL.Path),
				slog.String("query", c.Request.URL.RawQuery),
				slog.Any("params", paramsOf(c)),
				slog.String("ip", c.ClientIP()),
				slog.String("userAgent", c.Request.UserAgent()),
			),
			slog.Group("response",
				slog.Int("status", status),
				slog.Int("bytes", c.Writer.Size()),
				slog.Duration("latency", time.Since(started)),
			),
		}
		if status >= http.StatusBadRequest {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		logger.LogAttrs(c.Request.Context(), levelOf(status), "Processed HTTP request", attrs...)
	}
}

func paramsOf(c *gin.Context) map[string]string {
	params := make(map[string]string, len(c.Params))
	for _, param := range c.Params {
		params[param.Key] = param.Value
	}
	return params
}

func levelOf(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
