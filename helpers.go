package locator

import (
	"fmt"
	"reflect"
)

// Resolve with type safety.
func Resolve[T any](l Locator) (T, error) {
	var zero T

	serviceType := TypeOf[T]()

	instance, err := l.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	return cast[T](instance, serviceType, "")
}

// ResolveNamed resolves the registration of T stored under key.
func ResolveNamed[T any](l Locator, key string) (T, error) {
	var zero T

	serviceType := TypeOf[T]()

	instance, err := l.ResolveNamed(serviceType, key)
	if err != nil {
		return zero, err
	}

	return cast[T](instance, serviceType, key)
}

// ResolveType resolves the registration of serviceType and returns it as T.
// Use it when the registered type is only known at runtime.
func ResolveType[T any](l Locator, serviceType reflect.Type) (T, error) {
	var zero T

	if serviceType == nil {
		return zero, NewResolutionError(TypeOf[T](), "", ErrNilServiceType)
	}

	instance, err := l.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	return cast[T](instance, serviceType, "")
}

// ResolveServices returns every registration of T.
// The result is never nil.
func ResolveServices[T any](l Locator) ([]T, error) {
	serviceType := TypeOf[T]()

	instances, err := l.ResolveAll(serviceType)
	if err != nil {
		return nil, err
	}

	services := make([]T, 0, len(instances))
	for _, instance := range instances {
		typed, err := cast[T](instance, serviceType, "")
		if err != nil {
			return nil, err
		}

		services = append(services, typed)
	}

	return services, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](l Locator) T {
	instance, err := Resolve[T](l)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", TypeOf[T](), err))
	}

	return instance
}

// Inject performs property injection on instance and returns it unchanged.
func Inject[T any](l Locator, instance T) (T, error) {
	if err := l.Inject(instance); err != nil {
		return instance, err
	}

	return instance, nil
}

// TearDown releases the container-managed values held by instance.
func TearDown[T any](l Locator, instance T) error {
	return l.TearDown(instance)
}

// RegisterValue registers a pre-built instance of T.
func RegisterValue[T any](r Registrar, instance T, opts ...RegisterOption) error {
	return r.Register(func() T {
		return instance
	}, opts...)
}

// IsNil reports whether instance is nil or a typed nil pointer, map, slice,
// func, channel or interface.
func IsNil(instance any) bool {
	if instance == nil {
		return true
	}

	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// cast converts a resolved instance to T, reporting mismatches as resolution errors.
func cast[T any](instance any, serviceType reflect.Type, key string) (T, error) {
	var zero T

	typed, ok := instance.(T)
	if !ok {
		return zero, NewResolutionError(serviceType, key,
			NewTypeMismatchError(instance, TypeOf[T]()))
	}

	return typed, nil
}

// ServiceTypeOf returns the service type a constructor provides: its first
// return value. Anything other than such a function fails with ErrInvalidConstructor.
func ServiceTypeOf(constructor any) (reflect.Type, error) {
	if constructor == nil {
		return nil, ErrInvalidConstructor
	}

	t := reflect.TypeOf(constructor)
	if t.Kind() != reflect.Func || t.NumOut() == 0 {
		return nil, NewInvalidConstructorError(constructor)
	}

	return t.Out(0), nil
}
