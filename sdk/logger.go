package sdk

import (
	"go.uber.org/zap"
)

// Logger is the structured logging interface used across the module. *zap.SugaredLogger
// implements it.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return zap.NewNop().Sugar()
}
