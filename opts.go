package locator

import (
	"go.uber.org/zap"
)

// Lifetime controls how long a registered instance lives.
type Lifetime int

const (
	// LifetimeSingleton shares one instance for the lifetime of the container.
	LifetimeSingleton Lifetime = iota
	// LifetimeTransient creates a new instance on each resolve.
	LifetimeTransient
)

// String returns the lifetime name.
func (l Lifetime) String() string {
	switch l {
	case LifetimeSingleton:
		return "singleton"
	case LifetimeTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// RegisterOptions is the merged result of a set of RegisterOption values.
type RegisterOptions struct {
	Lifetime Lifetime
	Name     string
}

// RegisterOption is a configuration option for service registration.
type RegisterOption func(*RegisterOptions)

// Singleton makes the service a singleton (default).
func Singleton() RegisterOption {
	return func(o *RegisterOptions) {
		o.Lifetime = LifetimeSingleton
	}
}

// Transient makes the service created on each resolve.
func Transient() RegisterOption {
	return func(o *RegisterOptions) {
		o.Lifetime = LifetimeTransient
	}
}

// Named stores the registration under key.
func Named(key string) RegisterOption {
	return func(o *RegisterOptions) {
		o.Name = key
	}
}

// MergeRegisterOptions combines multiple options. Later options win.
func MergeRegisterOptions(opts []RegisterOption) RegisterOptions {
	merged := RegisterOptions{Lifetime: LifetimeSingleton}
	for _, opt := range opts {
		if opt != nil {
			opt(&merged)
		}
	}

	return merged
}

// Options configures a locator adapter.
type Options struct {
	Logger     *zap.Logger
	Middleware []Middleware
}

// Option is a configuration option for locator adapters.
type Option func(*Options)

// WithLogger sets the logger used by the adapter.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMiddleware appends resolution middleware.
func WithMiddleware(middleware ...Middleware) Option {
	return func(o *Options) {
		o.Middleware = append(o.Middleware, middleware...)
	}
}

// ApplyOptions merges opts over the defaults.
func ApplyOptions(opts []Option) Options {
	merged := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&merged)
		}
	}

	if merged.Logger == nil {
		merged.Logger = zap.NewNop()
	}

	return merged
}
