// Package log provides slog handlers.
package log

import (
	"context"
	"log/slog"

	"github.com/rsvp-platform/event-manager/internal/middleware"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"go.opentelemetry.io/otel/trace"
)

// KeyTraceID is the attribute key of the id of the trace a record was logged in.
const KeyTraceID = "traceId"

// ContextHandler adds the request scoped values of the [context.Context] to every [slog.Record].
// The keys match the ones of [middleware.RequestLogger] so the logs of a request can be found
// together. Values missing from the context are skipped, as is the case for the notification
// consumer and public routes.
type ContextHandler struct {
	next slog.Handler
}

func New(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return New(h.next.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return New(h.next.WithGroup(name))
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id, ok := middleware.GetCorrelationID(ctx); ok {
		attrs = append(attrs, slog.String(middleware.RequestLoggerKeyCorrelationID, id))
	}
	if user, ok := model.GetUserFromContext(ctx); ok && user != nil {
		attrs = append(attrs, slog.Uint64(middleware.RequestLoggerKeyUser, uint64(user.ID)))
	}
	if span := trace.SpanContextFromContext(ctx); span.HasTraceID() {
		attrs = append(attrs, slog.String(KeyTraceID, span.TraceID().String()))
	}
	return attrs
}
