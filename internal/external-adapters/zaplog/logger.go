// Package zaplog backs the domain Logger contract with zap.
package zaplog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
)

// Logger adapts a zap sugared logger to interfaces.Logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a CLI-friendly logger writing to stderr. Debug output is gated
// behind verbose so normal runs only show the per-step progress lines.
func New(verbose bool) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{sugar: base.Sugar()}, nil
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.sugar.Debugw(msg, flatten(fields)...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.sugar.Infow(msg, flatten(fields)...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.sugar.Warnw(msg, flatten(fields)...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.sugar.Errorw(msg, flatten(fields)...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func flatten(fields []interfaces.Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
