// Package logging builds the zap logger used by the locator and a middleware
// that records resolutions and releases.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xraph/locator"
	"github.com/xraph/locator/config"
)

// NewLogger creates a logger from cfg. Production or JSON configs get the zap
// production encoder; everything else gets a console encoder on stdout.
func NewLogger(cfg config.LoggingConfig) *zap.Logger {
	level := ParseLevel(cfg.Level)

	if cfg.Environment == "production" || cfg.Format == "json" {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)

		logger, err := zapConfig.Build()
		if err == nil {
			return logger
		}
	}

	return newDevelopmentLogger(level)
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func newDevelopmentLogger(level zapcore.Level) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core, zap.AddCaller())
}

// Middleware returns locator middleware that logs every resolution at debug
// and every failed resolution or release at warn.
func Middleware(logger *zap.Logger) locator.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &middleware{logger: logger.Named("locator")}
}

type middleware struct {
	logger *zap.Logger
}

func (m *middleware) BeforeResolve(ctx context.Context, ref locator.ServiceRef) error {
	return nil
}

func (m *middleware) AfterResolve(ctx context.Context, ref locator.ServiceRef, service any, err error) error {
	if err != nil {
		m.logger.Warn("service resolution failed",
			zap.Stringer("service", ref),
			zap.Error(err),
		)

		return nil
	}

	m.logger.Debug("service resolved",
		zap.Stringer("service", ref),
		zap.String("instance", fmt.Sprintf("%T", service)),
	)

	return nil
}

func (m *middleware) BeforeRelease(ctx context.Context, instance any) error {
	return nil
}

func (m *middleware) AfterRelease(ctx context.Context, instance any, err error) error {
	if err != nil {
		m.logger.Warn("service release failed",
			zap.String("instance", fmt.Sprintf("%T", instance)),
			zap.Error(err),
		)
	}

	return nil
}
