package cogtiff

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	baseLoggerOnce sync.Once
	baseLogger     *zap.Logger
)

// defaultLogger returns a process-wide production zap logger, built once.
// Callers that want different sink/level behavior can attach their own
// logger via WithLogger.
func defaultLogger() *zap.Logger {
	baseLoggerOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		baseLogger = l
	})
	return baseLogger
}

// newCorrelationID mints a per-reader trace id, attached as the "reader"
// field to the log lines a TiffReader emits, so output from several readers
// can be told apart.
func newCorrelationID() string {
	return uuid.New().String()
}
