package common

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultLogLevel applies when the configured level is empty or unparseable.
const defaultLogLevel = zapcore.WarnLevel

// NewLoggerWithConfig builds the process logger from cfg.App.
//
// Logs always go to stderr: stdout carries command results. Production uses the
// JSON encoder, anything else the colored console encoder.
func NewLoggerWithConfig(name string, cfg *Config) (*zap.Logger, error) {
	var config zap.Config
	if cfg.App.ENV == "production" {
		config = zap.NewProductionConfig()
		config.Sampling = nil
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(defaultLogLevel)
	if level, err := zap.ParseAtomicLevel(cfg.App.LogLevel); err == nil && cfg.App.LogLevel != "" {
		config.Level = level
	}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, err
	}
	if name == "" {
		return logger, nil
	}
	return logger.Named(name), nil
}
