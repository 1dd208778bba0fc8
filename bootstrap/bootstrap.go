// Package bootstrap assembles a locator from configuration.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xraph/locator"
	"github.com/xraph/locator/config"
	"github.com/xraph/locator/diglocator"
	"github.com/xraph/locator/golobbylocator"
	"github.com/xraph/locator/logging"
	"github.com/xraph/locator/telemetry"
)

// CodeUnknownContainer indicates a container kind bootstrap cannot build.
const CodeUnknownContainer = "UNKNOWN_CONTAINER"

// ErrUnknownContainer is returned for a container kind bootstrap cannot build.
var ErrUnknownContainer = errs.NewError(CodeUnknownContainer, "unknown container kind", nil)

// New builds the locator selected by cfg.Container. The logger built from
// cfg.Logging is attached to the adapter, wrapped in logging.Middleware and
// registered as a *zap.Logger singleton. Resolution counters are attached and
// registered as a *telemetry.Counters singleton. opts are applied after the
// defaults.
func New(cfg config.Config, opts ...locator.Option) (locator.Locator, error) {
	logger := logging.NewLogger(cfg.Logging)

	return NewWithLogger(cfg.Container, logger, opts...)
}

// NewWithLogger builds the locator of the given kind around logger.
func NewWithLogger(kind string, logger *zap.Logger, opts ...locator.Option) (locator.Locator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	counters := telemetry.New()

	options := append([]locator.Option{
		locator.WithLogger(logger),
		locator.WithMiddleware(logging.Middleware(logger), counters.Middleware()),
	}, opts...)

	var l locator.Locator
	switch strings.ToLower(kind) {
	case config.ContainerGolobby:
		l = golobbylocator.New(options...)
	case config.ContainerDig:
		l = diglocator.New(options...)
	default:
		return nil, errs.NewError(
			CodeUnknownContainer,
			fmt.Sprintf("unknown container kind %q", kind),
			nil,
		).WithContext("container", kind)
	}

	err := locator.RegisterServices(l.Batch(),
		locator.Service(func() *zap.Logger { return logger }),
		locator.Service(func() *telemetry.Counters { return counters }),
	)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("register ambient services: %w", err), l.Close())
	}

	logger.Debug("locator ready", zap.String("container", kind))

	return l, nil
}
