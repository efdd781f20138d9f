package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	pageKey  contextKey = "page"
)

// WithRunID stores the generate run identifier on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithPage stores the page kind currently being generated.
func WithPage(ctx context.Context, page string) context.Context {
	if page == "" {
		return ctx
	}
	return context.WithValue(ctx, pageKey, page)
}

// PageFromContext returns the page kind stored by WithPage.
func PageFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	page, ok := ctx.Value(pageKey).(string)
	return page, ok && page != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if page, ok := PageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPage, page))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
