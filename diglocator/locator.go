// Package diglocator implements locator.Locator over go.uber.org/dig.
//
// Resolution and property injection are expressed with dig's own parameter
// objects: every request is an invocation taking a struct that embeds dig.In,
// built at runtime for the requested type, key or value group.
//
// dig keeps every provided value for the lifetime of the container, so only
// singleton registrations are supported and Release and TearDown do nothing.
package diglocator

import (
	"context"
	"reflect"
	"sync"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/xraph/locator"
)

var _ locator.Locator = (*Locator)(nil)

// Locator is a service locator backed by a dig container.
type Locator struct {
	container  *dig.Container
	registrar  *registrar
	middleware *locator.MiddlewareChain
	logger     *zap.Logger
	mu         sync.RWMutex
}

// New creates a locator around a new dig container.
func New(opts ...locator.Option) *Locator {
	return newLocator(dig.New(dig.RecoverFromPanics()), locator.ApplyOptions(opts))
}

// NewWithContainer creates a locator around c.
// It fails with locator.ErrNilContainer when c is nil.
func NewWithContainer(c *dig.Container, opts ...locator.Option) (*Locator, error) {
	if c == nil {
		return nil, locator.ErrNilContainer
	}

	return newLocator(c, locator.ApplyOptions(opts)), nil
}

func newLocator(c *dig.Container, options locator.Options) *Locator {
	return &Locator{
		container:  c,
		middleware: locator.NewMiddlewareChain(options.Middleware...),
		logger:     options.Logger.Named("dig"),
	}
}

// Container returns the held container, or nil after Reset.
func (l *Locator) Container() *dig.Container {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.container
}

// Resolve returns the unnamed value of serviceType.
func (l *Locator) Resolve(serviceType reflect.Type) (any, error) {
	return l.resolve(serviceType, "")
}

// ResolveNamed returns the value of serviceType provided with dig.Name(key).
func (l *Locator) ResolveNamed(serviceType reflect.Type, key string) (any, error) {
	return l.resolve(serviceType, key)
}

// ResolveAll returns the members of the value group named by GroupName.
func (l *Locator) ResolveAll(serviceType reflect.Type) ([]any, error) {
	c, err := l.current()
	if err != nil {
		return nil, locator.NewResolutionError(serviceType, "", err)
	}

	if serviceType == nil {
		return nil, locator.NewResolutionError(nil, "", locator.ErrNilServiceType)
	}

	params, err := invokeWith(c, paramField{
		Type:  reflect.SliceOf(serviceType),
		Group: GroupName(serviceType),
	})
	if err != nil {
		return nil, locator.NewResolutionError(serviceType, "", err)
	}

	members := params.Field(1)

	instances := make([]any, 0, members.Len())
	for i := 0; i < members.Len(); i++ {
		instances = append(instances, members.Index(i).Interface())
	}

	return instances, nil
}

// Release does nothing: dig owns every value it has built until the container is dropped.
//
// Deprecated: not supported by dig.
func (l *Locator) Release(instance any) error {
	return nil
}

// Inject assigns the exported, settable fields of the struct pointed to by
// instance whose types dig can provide. A field's `name` tag selects a named
// value. Fields dig cannot provide are left untouched.
func (l *Locator) Inject(instance any) error {
	c, err := l.current()
	if err != nil {
		return err
	}

	fields, err := locator.InjectableFields(instance)
	if err != nil {
		return err
	}

	candidates := fields[:0]
	for _, field := range fields {
		if injectable(field.Type) {
			candidates = append(candidates, field)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	params := make([]paramField, len(candidates))
	for i, field := range candidates {
		params[i] = paramField{
			Type:     field.Type,
			Name:     field.Tag.Get("name"),
			Optional: true,
		}
	}

	values, err := invokeWith(c, params...)
	if err != nil {
		return locator.NewResolutionError(reflect.TypeOf(instance), "", err)
	}

	for i, field := range candidates {
		value := values.Field(i + 1)
		if value.IsZero() {
			continue
		}

		field.Value.Set(value)
	}

	return nil
}

// TearDown does nothing: dig owns every value it has built until the container is dropped.
//
// Deprecated: not supported by dig.
func (l *Locator) TearDown(instance any) error {
	return nil
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

// Reset drops the held container. dig has no disposal API of its own.
func (l *Locator) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.container == nil {
		return nil
	}

	l.container = nil
	l.registrar = nil

	l.logger.Debug("container reset")

	return nil
}

// Close disposes the locator.
func (l *Locator) Close() error {
	return l.Reset()
}

func (l *Locator) current() (*dig.Container, error) {
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

		if serviceType == nil {
			return nil, locator.NewResolutionError(nil, key, locator.ErrNilServiceType)
		}

		params, err := invokeWith(c, paramField{Type: serviceType, Name: key})
		if err != nil {
			return nil, locator.NewResolutionError(serviceType, key, err)
		}

		instance := params.Field(1).Interface()
		if locator.IsNil(instance) {
			return nil, locator.NewResolutionError(serviceType, key, locator.ErrNilInstance)
		}

		return instance, nil
	})
}
