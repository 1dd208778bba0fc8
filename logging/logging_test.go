package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xraph/locator"
	"github.com/xraph/locator/config"
	"github.com/xraph/locator/golobbylocator"
)

type closer struct {
	err error
}

func (c *closer) Close() error {
	return c.err
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestNewLogger(t *testing.T) {
	dev := NewLogger(config.LoggingConfig{Level: "debug"})
	require.NotNil(t, dev)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NotNil(t, prod)
	assert.False(t, prod.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, prod.Core().Enabled(zapcore.WarnLevel))
}

func TestMiddleware_LogsResolutions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	l := golobbylocator.New(locator.WithMiddleware(Middleware(zap.New(core))))
	require.NoError(t, locator.RegisterValue(l.Batch(), &closer{}))

	_, err := locator.Resolve[*closer](l)
	require.NoError(t, err)

	_, err = locator.Resolve[*zap.Logger](l)
	require.Error(t, err)

	resolved := logs.FilterMessage("service resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, "locator", resolved[0].LoggerName)
	assert.Equal(t, "*logging.closer", resolved[0].ContextMap()["service"])

	failed := logs.FilterMessage("service resolution failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, "*zap.Logger", failed[0].ContextMap()["service"])
}

func TestMiddleware_LogsFailedReleases(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	l := golobbylocator.New(locator.WithMiddleware(Middleware(zap.New(core))))
	require.NoError(t, l.Batch().Register(func() *closer { return &closer{} }, locator.Transient()))
	require.NoError(t, l.Batch().Register(func() *closer { return &closer{err: assert.AnError} }, locator.Named("failing"), locator.Transient()))

	ok, err := locator.Resolve[*closer](l)
	require.NoError(t, err)
	require.NoError(t, l.Release(ok))
	assert.Equal(t, 0, logs.FilterMessage("service release failed").Len())

	failing, err := locator.ResolveNamed[*closer](l, "failing")
	require.NoError(t, err)
	require.Error(t, l.Release(failing))
	assert.Equal(t, 1, logs.FilterMessage("service release failed").Len())
}

func TestMiddleware_NilLogger(t *testing.T) {
	mw := Middleware(nil)

	assert.NoError(t, mw.AfterResolve(t.Context(), locator.ServiceRef{}, nil, assert.AnError))
	assert.NoError(t, mw.AfterRelease(t.Context(), nil, assert.AnError))
}
