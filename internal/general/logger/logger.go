package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field re-exports the zap field type so call sites do not import zap directly.
type Field = zapcore.Field

var (
	Int     = zap.Int
	Int64   = zap.Int64
	Float64 = zap.Float64
	String  = zap.String
	Bool    = zap.Bool
	Err     = zap.Error
	Any     = zap.Any
)

// Logger is the structured logger used across all services.
type Logger struct {
	zap *zap.Logger
}

// New builds a production JSON logger for the given service name.
func New(service, level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(levelFromString(level))
	cfg.OutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]interface{}{
		"service": service,
	}

	zl, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{zap: zl}
}

// NewNop returns a logger that discards everything; used in tests.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// Sync flushes buffered log entries; call on shutdown.
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}

func levelFromString(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
