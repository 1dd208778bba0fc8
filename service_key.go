package locator

// ServiceKey provides type-safe keyed service identification.
// Use NewServiceKey to create typed keys for your services.
type ServiceKey[T any] struct {
	name string
}

// NewServiceKey creates a new typed service key.
// The type parameter T ensures type safety when registering and resolving services.
//
// Example:
//
//	var PrimaryDB = NewServiceKey[*sql.DB]("primary")
//	var ReplicaDB = NewServiceKey[*sql.DB]("replica")
func NewServiceKey[T any](name string) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// Name returns the string name of the service key.
func (k ServiceKey[T]) Name() string {
	return k.name
}

// Ref returns the ServiceRef the key resolves.
func (k ServiceKey[T]) Ref() ServiceRef {
	return ServiceRef{Type: TypeOf[T](), Key: k.name}
}

// RegisterWithKey registers constructor under the key's name.
// The constructor must return T as its first value.
//
// Example:
//
//	RegisterWithKey(l.Batch(), PrimaryDB, func() (*sql.DB, error) {
//	    return sql.Open("postgres", primaryDSN)
//	})
func RegisterWithKey[T any](r Registrar, key ServiceKey[T], constructor any, opts ...RegisterOption) error {
	return r.Register(constructor, append(opts, Named(key.name))...)
}

// ResolveWithKey resolves a service using a typed service key.
//
// Example:
//
//	db, err := ResolveWithKey(l, PrimaryDB)
func ResolveWithKey[T any](l Locator, key ServiceKey[T]) (T, error) {
	return ResolveNamed[T](l, key.name)
}

// MustWithKey resolves a service using a typed service key and panics on error.
func MustWithKey[T any](l Locator, key ServiceKey[T]) T {
	result, err := ResolveWithKey(l, key)
	if err != nil {
		panic(err)
	}
	return result
}
