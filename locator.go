// Package locator provides a uniform service locator over third-party
// dependency injection containers.
//
// The adapters live in sub-packages: diglocator wraps go.uber.org/dig and
// golobbylocator wraps github.com/golobby/container/v3. Both satisfy Locator
// and report every failure to produce an instance as a *ResolutionError.
package locator

import "reflect"

// Locator resolves, injects and releases services held by a container.
//
// The generic helpers Resolve, ResolveNamed, ResolveType, ResolveServices,
// Inject and TearDown are the preferred way to call a Locator.
type Locator interface {
	// Resolve returns the unnamed registration of serviceType.
	Resolve(serviceType reflect.Type) (any, error)

	// ResolveNamed returns the registration of serviceType stored under key.
	ResolveNamed(serviceType reflect.Type, key string) (any, error)

	// ResolveAll returns every registration of serviceType.
	// An empty slice is returned when nothing is registered.
	ResolveAll(serviceType reflect.Type) ([]any, error)

	// Release hands a previously resolved instance back to the container.
	Release(instance any) error

	// Inject populates the exported, settable fields of the struct pointed to
	// by instance whose types are registered with the container.
	Inject(instance any) error

	// TearDown releases the container-managed values held by instance.
	TearDown(instance any) error

	// Batch returns the registrar bound to the held container.
	Batch() Registrar

	// Reset disposes the held container. The locator is unusable afterwards.
	Reset() error

	// Close disposes the locator. It is equivalent to Reset.
	Close() error
}

// Registrar adds registrations to the container held by a Locator.
type Registrar interface {
	// Register binds the first return type of constructor.
	// The parameters of constructor are resolved from the container.
	Register(constructor any, opts ...RegisterOption) error
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
