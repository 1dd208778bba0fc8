package locator

import "context"

// Middleware provides hooks for intercepting locator operations.
// Middleware can be used for logging, metrics, security, testing, etc.
type Middleware interface {
	// BeforeResolve is called before resolving a service.
	// Return error to abort resolution.
	BeforeResolve(ctx context.Context, ref ServiceRef) error

	// AfterResolve is called after resolving a service.
	// Called even if resolution failed (service and err may both be set).
	AfterResolve(ctx context.Context, ref ServiceRef, service any, err error) error

	// BeforeRelease is called before an instance is handed back to the container.
	// Return error to abort the release.
	BeforeRelease(ctx context.Context, instance any) error

	// AfterRelease is called after an instance was handed back.
	// Called even if the release failed.
	AfterRelease(ctx context.Context, instance any, err error) error
}

// MiddlewareChain runs a list of middleware in the order they were added.
type MiddlewareChain struct {
	middleware []Middleware
}

// NewMiddlewareChain creates a new middleware chain.
func NewMiddlewareChain(middleware ...Middleware) *MiddlewareChain {
	chain := &MiddlewareChain{
		middleware: make([]Middleware, 0, len(middleware)),
	}
	for _, mw := range middleware {
		chain.Use(mw)
	}

	return chain
}

// Use appends middleware to the chain.
func (m *MiddlewareChain) Use(middleware Middleware) {
	if middleware == nil {
		return
	}
	m.middleware = append(m.middleware, middleware)
}

// Len returns the number of middleware in the chain.
func (m *MiddlewareChain) Len() int {
	return len(m.middleware)
}

// Resolve runs fn between the BeforeResolve and AfterResolve hooks.
// A middleware error replaces the result of fn.
func (m *MiddlewareChain) Resolve(ctx context.Context, ref ServiceRef, fn func() (any, error)) (any, error) {
	for _, mw := range m.middleware {
		if err := mw.BeforeResolve(ctx, ref); err != nil {
			return nil, err
		}
	}

	service, err := fn()

	for _, mw := range m.middleware {
		if mwErr := mw.AfterResolve(ctx, ref, service, err); mwErr != nil {
			return nil, mwErr
		}
	}

	return service, err
}

// Release runs fn between the BeforeRelease and AfterRelease hooks.
func (m *MiddlewareChain) Release(ctx context.Context, instance any, fn func() error) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeRelease(ctx, instance); err != nil {
			return err
		}
	}

	err := fn()

	for _, mw := range m.middleware {
		if mwErr := mw.AfterRelease(ctx, instance, err); mwErr != nil {
			return mwErr
		}
	}

	return err
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(ctx context.Context, ref ServiceRef) error
	AfterResolveFunc  func(ctx context.Context, ref ServiceRef, service any, err error) error
	BeforeReleaseFunc func(ctx context.Context, instance any) error
	AfterReleaseFunc  func(ctx context.Context, instance any, err error) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(ctx context.Context, ref ServiceRef) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(ctx, ref)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(ctx context.Context, ref ServiceRef, service any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(ctx, ref, service, err)
	}
	return nil
}

// BeforeRelease implements Middleware.
func (f *FuncMiddleware) BeforeRelease(ctx context.Context, instance any) error {
	if f.BeforeReleaseFunc != nil {
		return f.BeforeReleaseFunc(ctx, instance)
	}
	return nil
}

// AfterRelease implements Middleware.
func (f *FuncMiddleware) AfterRelease(ctx context.Context, instance any, err error) error {
	if f.AfterReleaseFunc != nil {
		return f.AfterReleaseFunc(ctx, instance, err)
	}
	return nil
}
