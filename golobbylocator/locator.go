// Package golobbylocator implements locator.Locator over
// github.com/golobby/container/v3.
//
// golobby binds resolvers by their return type and an optional name. Property
// injection and teardown are done here by walking exported struct fields and
// checking for an unnamed binding of each field type.
//
// Resolved pointers implementing io.Closer are tracked with the lifetime of
// the binding that produced them. Release closes tracked transient instances
// only; Reset closes every tracked instance, singletons included, in reverse
// resolution order. Bindings made outside the registrar are treated as
// singletons.
package golobbylocator

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/golobby/container/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xraph/locator"
)

var _ locator.Locator = (*Locator)(nil)

// Locator is a service locator backed by a golobby container.
type Locator struct {
	container  container.Container
	registrar  *registrar
	lifetimes  map[locator.ServiceRef]locator.Lifetime
	middleware *locator.MiddlewareChain
	logger     *zap.Logger
	mu         sync.RWMutex

	owned   []ownedInstance
	ownedMu sync.Mutex
}

// ownedInstance is a resolved closer the locator is responsible for.
type ownedInstance struct {
	instance io.Closer
	lifetime locator.Lifetime
}

// New creates a locator around a new, empty golobby container.
func New(opts ...locator.Option) *Locator {
	return NewWithContainer(container.New(), opts...)
}

// NewWithContainer creates a locator around c. A nil container is accepted
// and leaves the locator in the reset state.
func NewWithContainer(c container.Container, opts ...locator.Option) *Locator {
	options := locator.ApplyOptions(opts)

	return &Locator{
		container:  c,
		lifetimes:  make(map[locator.ServiceRef]locator.Lifetime),
		middleware: locator.NewMiddlewareChain(options.Middleware...),
		logger:     options.Logger.Named("golobby"),
	}
}

// Container returns the held container, or nil after Reset.
func (l *Locator) Container() container.Container {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.container
}

// Resolve returns the unnamed binding of serviceType.
func (l *Locator) Resolve(serviceType reflect.Type) (any, error) {
	return l.resolve(serviceType, "")
}

// ResolveNamed returns the binding of serviceType stored under key.
func (l *Locator) ResolveNamed(serviceType reflect.Type, key string) (any, error) {
	return l.resolve(serviceType, key)
}

// ResolveAll returns every binding of serviceType: the unnamed binding first,
// then named bindings ordered by key.
func (l *Locator) ResolveAll(serviceType reflect.Type) ([]any, error) {
	c, err := l.current()
	if err != nil {
		return nil, locator.NewResolutionError(serviceType, "", err)
	}

	keys := bindingKeys(c, serviceType)

	instances := make([]any, 0, len(keys))
	for _, key := range keys {
		instance, err := l.resolve(serviceType, key)
		if err != nil {
			return nil, err
		}

		instances = append(instances, instance)
	}

	return instances, nil
}

// Release hands instance back to the container. A closer resolved from a
// transient binding is closed and forgotten. Singletons and instances the
// locator did not produce are left alone.
func (l *Locator) Release(instance any) error {
	if _, err := l.current(); err != nil {
		return err
	}

	if locator.IsNil(instance) {
		return nil
	}

	return l.middleware.Release(context.Background(), instance, func() error {
		closer, ok := l.untrackTransient(instance)
		if !ok {
			return nil
		}

		if err := closer.Close(); err != nil {
			l.logger.Warn("failed to release instance",
				zap.String("type", fmt.Sprintf("%T", instance)),
				zap.Error(err),
			)

			return fmt.Errorf("release %T: %w", instance, err)
		}

		return nil
	})
}

// Inject assigns every exported, settable field of the struct pointed to by
// instance whose type has an unnamed binding. Other fields are left untouched.
func (l *Locator) Inject(instance any) error {
	c, err := l.current()
	if err != nil {
		return err
	}

	fields, err := locator.InjectableFields(instance)
	if err != nil {
		return err
	}

	for _, field := range fields {
		if !hasComponent(c, field.Type) {
			continue
		}

		value, err := l.resolve(field.Type, "")
		if err != nil {
			return err
		}

		field.Value.Set(reflect.ValueOf(value))
	}

	return nil
}

// TearDown releases every non-zero exported field of instance whose type has
// an unnamed binding. Singleton fields survive.
func (l *Locator) TearDown(instance any) error {
	c, err := l.current()
	if err != nil {
		return err
	}

	var errs error
	for _, field := range locator.ExportedFields(instance) {
		if !hasComponent(c, field.Type) || field.Value.IsZero() {
			continue
		}

		errs = multierr.Append(errs, l.Release(field.Value.Interface()))
	}

	return errs
}

// Batch returns the registrar bound to the held container.
func (l *Locator) Batch() locator.Registrar {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.registrar == nil {
		l.registrar = &registrar{owner: l}
	}

	return l.registrar
}

// Reset closes every tracked instance, removes every binding from the held
// container and drops it. Close errors are aggregated.
func (l *Locator) Reset() error {
	l.mu.Lock()

	if l.container == nil {
		l.mu.Unlock()
		return nil
	}

	l.container.Reset()
	l.container = nil
	l.registrar = nil
	l.lifetimes = make(map[locator.ServiceRef]locator.Lifetime)

	l.mu.Unlock()

	l.ownedMu.Lock()
	owned := l.owned
	l.owned = nil
	l.ownedMu.Unlock()

	var errs error
	for i := len(owned) - 1; i >= 0; i-- {
		if err := owned[i].instance.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close %T: %w", owned[i].instance, err))
		}
	}

	l.logger.Debug("container reset", zap.Int("closed", len(owned)))

	return errs
}

// Close disposes the locator.
func (l *Locator) Close() error {
	return l.Reset()
}

func (l *Locator) current() (container.Container, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.container == nil {
		return nil, locator.ErrLocatorReset
	}

	return l.container, nil
}

func (l *Locator) resolve(serviceType reflect.Type, key string) (any, error) {
	ref := locator.ServiceRef{Type: serviceType, Key: key}

	return l.middleware.Resolve(context.Background(), ref, func() (any, error) {
		c, err := l.current()
		if err != nil {
			return nil, locator.NewResolutionError(serviceType, key, err)
		}

		instance, err := resolveFrom(c, serviceType, key)
		if err != nil {
			return nil, locator.NewResolutionError(serviceType, key, err)
		}

		l.track(ref, instance)

		return instance, nil
	})
}

// resolveFrom resolves a binding into a fresh receiver of serviceType.
func resolveFrom(c container.Container, serviceType reflect.Type, key string) (instance any, err error) {
	if serviceType == nil {
		return nil, locator.ErrNilServiceType
	}

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("container panicked: %v", r)
		}
	}()

	receiver := reflect.New(serviceType)
	if err := c.NamedResolve(receiver.Interface(), key); err != nil {
		return nil, err
	}

	instance = receiver.Elem().Interface()
	if locator.IsNil(instance) {
		return nil, locator.ErrNilInstance
	}

	return instance, nil
}

func (l *Locator) setLifetime(ref locator.ServiceRef, lifetime locator.Lifetime) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lifetimes[ref] = lifetime
}

func (l *Locator) lifetimeOf(ref locator.ServiceRef) locator.Lifetime {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if lifetime, ok := l.lifetimes[ref]; ok {
		return lifetime
	}

	return locator.LifetimeSingleton
}

// track records a resolved pointer closer once, with the lifetime of its binding.
func (l *Locator) track(ref locator.ServiceRef, instance any) {
	closer, ok := instance.(io.Closer)
	if !ok || reflect.ValueOf(instance).Kind() != reflect.Ptr {
		return
	}

	lifetime := l.lifetimeOf(ref)

	l.ownedMu.Lock()
	defer l.ownedMu.Unlock()

	for _, o := range l.owned {
		if o.instance == closer {
			return
		}
	}

	l.owned = append(l.owned, ownedInstance{instance: closer, lifetime: lifetime})
}

// untrackTransient forgets instance and returns it when it was resolved from
// a transient binding.
func (l *Locator) untrackTransient(instance any) (io.Closer, bool) {
	closer, ok := instance.(io.Closer)
	if !ok || reflect.ValueOf(instance).Kind() != reflect.Ptr {
		return nil, false
	}

	l.ownedMu.Lock()
	defer l.ownedMu.Unlock()

	for i, o := range l.owned {
		if o.instance != closer {
			continue
		}

		if o.lifetime != locator.LifetimeTransient {
			return nil, false
		}

		l.owned = append(l.owned[:i], l.owned[i+1:]...)

		return closer, true
	}

	return nil, false
}

// hasComponent reports whether serviceType has an unnamed binding.
func hasComponent(c container.Container, serviceType reflect.Type) bool {
	_, ok := c[serviceType][""]

	return ok
}

func bindingKeys(c container.Container, serviceType reflect.Type) []string {
	keys := make([]string, 0, len(c[serviceType]))
	for key := range c[serviceType] {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
