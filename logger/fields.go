package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across the
// casual managers. Use these constants instead of raw strings.
const (
	// Identity and correlation
	FieldPID         = "pid"
	FieldIPC         = "ipc"
	FieldCorrelation = "correlation"
	FieldExecution   = "execution"
	FieldTRID        = "trid"
	FieldIdentity    = "identity"

	// Components
	FieldComponent = "component"
	FieldService   = "service"
	FieldQueue     = "queue"
	FieldResource  = "resource"
	FieldConn      = "connection"
	FieldAlias     = "alias"

	// Operations
	FieldOperation = "operation"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldDeadline   = "deadline"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "error_kind"

	// Counts
	FieldCount       = "count"
	FieldRedelivery  = "redelivery_count"

	// Status
	FieldState  = "state"
	FieldRunlevel = "runlevel"

	// Network
	FieldAddress  = "address"
	FieldDomainID = "domain_id"

	FieldSymbol = "symbol"
)

type contextKey string

const (
	correlationKey contextKey = "logger_correlation"
	trIDKey        contextKey = "logger_trid"
	componentKey   contextKey = "logger_component"
)

// WithCorrelation attaches a correlation id to the context for logging.
func WithCorrelation(ctx context.Context, correlation string) context.Context {
	return context.WithValue(ctx, correlationKey, correlation)
}

// WithTRID attaches a transaction id to the context for logging.
func WithTRID(ctx context.Context, trid string) context.Context {
	return context.WithValue(ctx, trIDKey, trid)
}

// WithComponent attaches a component name to the context for logging.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context for use with
// Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if v, ok := ctx.Value(correlationKey).(string); ok && v != "" {
		fields = append(fields, FieldCorrelation, v)
	}
	if v, ok := ctx.Value(trIDKey).(string); ok && v != "" {
		fields = append(fields, FieldTRID, v)
	}
	if v, ok := ctx.Value(componentKey).(string); ok && v != "" {
		fields = append(fields, FieldComponent, v)
	}
	return fields
}

// LoggerFromContext returns a logger enriched with fields extracted from ctx.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ChildLogger creates a child logger with additional static fields, for a
// sub-operation that wants extra context without renaming the component.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
