package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger: console output in development, JSON in
// production. An unparsable level falls back to debug.
func New(level string, production bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)

	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, fallback to debug\n", level)
			cfg.Level.SetLevel(zap.DebugLevel)
		}
	}
	return cfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func Must(level string, production bool) *zap.Logger {
	l, err := New(level, production)
	if err != nil {
		panic(err)
	}
	return l
}
