package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/muhammadchandra19/kairon/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around zap.Logger to provide structured logging.
type Logger struct {
	logger *zap.Logger
}

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// Level represents the severity level of the log.
type Level string

const (
	// DebugLevel is used for debug messages.
	DebugLevel Level = "debug"
	// InfoLevel is used for informational messages.
	InfoLevel Level = "info"
	// WarnLevel is used for warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel is used for error messages.
	ErrorLevel Level = "error"

	messageKey = "message"
)

func (level Level) zapLevel() zapcore.Level {
	switch Level(strings.ToLower(string(level))) {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type options struct {
	level           Level
	outputPaths     []string
	timeKey         string
	callerTraceSkip int
	fields          []Field
}

// Option configures the logger built by NewLogger.
type Option func(*options)

// WithLoggingLevel sets the minimum level written. Defaults to info.
func WithLoggingLevel(level Level) Option {
	return func(o *options) { o.level = level }
}

// WithOutputPaths sets the sinks logs are written to. "stdout" and "stderr"
// are interpreted as os.Stdout and os.Stderr.
func WithOutputPaths(paths ...string) Option {
	return func(o *options) { o.outputPaths = paths }
}

// WithTimeKey renames the time field of every entry.
func WithTimeKey(key string) Option {
	return func(o *options) { o.timeKey = key }
}

// WithCallerTraceSkip will skip X frames from the caller annotation.
func WithCallerTraceSkip(skip int) Option {
	return func(o *options) { o.callerTraceSkip = skip }
}

// WithStaticFields attaches fields to every entry, e.g. service name.
func WithStaticFields(fields ...Field) Option {
	return func(o *options) { o.fields = append(o.fields, fields...) }
}

// NewLogger creates new Logger instance with configuration options.
func NewLogger(opts ...Option) (*Logger, error) {
	o := &options{level: InfoLevel}
	for _, opt := range opts {
		opt(o)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(o.level.zapLevel())
	cfg.EncoderConfig.MessageKey = messageKey
	if len(o.outputPaths) > 0 {
		cfg.OutputPaths = o.outputPaths
	}
	if o.timeKey != "" {
		cfg.EncoderConfig.TimeKey = o.timeKey
	}

	var buildOptions []zap.Option
	if o.callerTraceSkip > 0 {
		buildOptions = append(buildOptions, zap.AddCallerSkip(o.callerTraceSkip))
	}
	if len(o.fields) > 0 {
		buildOptions = append(buildOptions, zap.Fields(convertFields(o.fields...)...))
	}

	zl, err := cfg.Build(buildOptions...)
	if err != nil {
		return nil, err
	}

	return &Logger{logger: zl}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// Sync flush the buffered log entries
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// NewField returns Field with given key and value.
func NewField(key string, value any) Field {
	return Field{key, value}
}

// Info write log with severity level info
func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, convertFields(fields...)...)
}

// InfoContext write log with severity level info and append request id to given fields.
func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, appendRequestID(ctx, fields)...)
}

// Warn write log with severity level warn
func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, convertFields(fields...)...)
}

// WarnContext write log with severity level warn and append request id to given fields.
func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, appendRequestID(ctx, fields)...)
}

// Debug Write log with severity level debug
func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, convertFields(fields...)...)
}

// DebugContext Write log with severity level debug and append request id to given fields.
func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, appendRequestID(ctx, fields)...)
}

// Error write log with severity level error. When err carries a stack
// trace (see errors.ErrorTracer) it replaces the zap generated one.
func (l *Logger) Error(err error, fields ...Field) {
	ce := l.logger.Check(zapcore.ErrorLevel, err.Error())
	if ce == nil {
		return
	}

	if errTracer, ok := err.(errors.StackTracer); ok {
		if stack := strings.TrimSpace(fmt.Sprintf("%+v", errTracer.StackTrace())); stack != "" {
			ce.Stack = stack
		}
	}

	if cause := unwrapCause(err); cause != "" {
		fields = append(fields, NewField("cause", cause))
	}

	ce.Write(convertFields(fields...)...)
}

// ErrorContext write log with severity level error and append request id to given fields.
func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, appendRequestID(ctx, fields)...)
}

// WithFields returns a child logger with additional fields.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{
		logger: l.logger.With(convertFields(fields...)...),
	}
}

func convertFields(fields ...Field) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}
	return zapFields
}

// unwrapCause returns the message of the wrapped error for tracers, whose own
// message is only the error code.
func unwrapCause(err error) string {
	tracer, ok := err.(*errors.ErrorTracer)
	if !ok || tracer.Err == nil {
		return ""
	}
	return tracer.Err.Error()
}

func appendRequestID(ctx context.Context, fields []Field) []Field {
	if id := util.GetRequestID(ctx); id != "" {
		return append(fields, NewField("request_id", id))
	}
	return fields
}
