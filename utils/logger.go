// Package utils holds the process-wide logger.
package utils

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// InitLogger builds the process logger once; later calls return the same
// instance regardless of the debug flag. Debug mode uses a console
// encoder at debug level; otherwise entries are JSON with the service
// name stamped on each one.
func InitLogger(debug bool) *zap.Logger {
	once.Do(func() {
		var cfg zap.Config
		if debug {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
			cfg.InitialFields = map[string]interface{}{"service": "mempool-vortex"}
		}
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
		if err != nil {
			panic(err)
		}
		log = logger
	})

	return log
}

// GetLogger returns the process logger, initializing it at info level if
// InitLogger has not run.
func GetLogger() *zap.Logger {
	if log == nil {
		return InitLogger(false)
	}
	return log
}

// CleanupLogger flushes any buffered log entries.
func CleanupLogger() {
	if log != nil {
		_ = log.Sync()
	}
}
