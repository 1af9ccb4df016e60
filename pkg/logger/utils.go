package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// convertToZapFields turns err and the field maps into zap fields. Later maps
// win on duplicate keys. Coded errors also contribute "error_code" and their
// attached context, which explicit fields override.
func (l *Logger) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	merged := make(map[string]interface{})
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
		if code := faceerr.CodeOf(err); code != "" {
			zapFields = append(zapFields, zap.String("error_code", string(code)))
		}
		for key, value := range faceerr.FieldsOf(err) {
			merged[key] = value
		}
	}

	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			merged[key] = value
		}
	}
	for key, value := range merged {
		zapFields = append(zapFields, zap.Any(key, value))
	}
	return zapFields
}

// Named returns a child logger tagged with component, e.g. "vectordb.qdrant".
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		Zap:            l.Zap.With(zap.String("component", component)),
		tracingEnabled: l.tracingEnabled,
	}
}

// traceFields extracts trace and span IDs from ctx when tracing is enabled.
func (l *Logger) traceFields(ctx context.Context) map[string]interface{} {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}

	return map[string]interface{}{
		"trace_id": spanCtx.TraceID().String(),
		"span_id":  spanCtx.SpanID().String(),
	}
}

// Info logs an informational message, along with an optional error and structured fields.
//
// Example:
//
//	logger.Info("Collection created", nil, map[string]interface{}{
//	    "collection": "vgg-face_opencv_cosine",
//	})
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

// Debug logs a debug-level message, useful for development and troubleshooting.
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

// Warn logs a warning message, indicating potential issues that aren't necessarily errors.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

// Error logs an error message, including details of the error and additional context fields.
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}

// Fatal logs a critical error message and terminates the application.
// Use Fatal only for errors that make it impossible for the application to continue running.
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.convertToZapFields(err, fields...)...)
}

// InfoWithContext is Info plus trace correlation fields from ctx.
func (l *Logger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Info(msg, err, append(fields, l.traceFields(ctx))...)
}

// DebugWithContext is Debug plus trace correlation fields from ctx.
func (l *Logger) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Debug(msg, err, append(fields, l.traceFields(ctx))...)
}

// WarnWithContext is Warn plus trace correlation fields from ctx.
func (l *Logger) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Warn(msg, err, append(fields, l.traceFields(ctx))...)
}

// ErrorWithContext is Error plus trace correlation fields from ctx.
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Error(msg, err, append(fields, l.traceFields(ctx))...)
}
