package locator

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a dependency that is resolved on first access.
// This is useful for deferring resolution of expensive services until
// they're actually needed.
type Lazy[T any] struct {
	locator  Locator
	key      string
	once     sync.Once
	value    T
	err      error
	resolved atomic.Bool
}

// NewLazy creates a new lazy dependency wrapper.
// An empty key resolves the unnamed registration.
func NewLazy[T any](l Locator, key string) *Lazy[T] {
	return &Lazy[T]{
		locator: l,
		key:     key,
	}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value or error.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = resolveKeyed[T](l.locator, l.key)
		l.resolved.Store(l.err == nil)
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.Ref(), err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Ref returns the reference of the dependency.
func (l *Lazy[T]) Ref() ServiceRef {
	return ServiceRef{Type: TypeOf[T](), Key: l.key}
}

// Provider wraps a dependency that is resolved on each access.
// Transient registrations yield a fresh instance per call.
type Provider[T any] struct {
	locator Locator
	key     string
}

// NewProvider creates a new provider.
func NewProvider[T any](l Locator, key string) *Provider[T] {
	return &Provider[T]{
		locator: l,
		key:     key,
	}
}

// Provide resolves and returns the dependency.
func (p *Provider[T]) Provide() (T, error) {
	return resolveKeyed[T](p.locator, p.key)
}

// MustProvide resolves and returns the dependency, panicking on error.
func (p *Provider[T]) MustProvide() T {
	value, err := p.Provide()
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", p.Ref(), err))
	}

	return value
}

// Ref returns the reference of the dependency.
func (p *Provider[T]) Ref() ServiceRef {
	return ServiceRef{Type: TypeOf[T](), Key: p.key}
}

func resolveKeyed[T any](l Locator, key string) (T, error) {
	if key == "" {
		return Resolve[T](l)
	}

	return ResolveNamed[T](l, key)
}
