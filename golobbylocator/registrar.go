package golobbylocator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xraph/locator"
)

// registrar binds constructors lazily so nothing is built before first use.
type registrar struct {
	owner *Locator
}

// Register binds constructor by its first return type.
func (r *registrar) Register(constructor any, opts ...locator.RegisterOption) error {
	c, err := r.owner.current()
	if err != nil {
		return err
	}

	serviceType, err := locator.ServiceTypeOf(constructor)
	if err != nil {
		return err
	}

	options := locator.MergeRegisterOptions(opts)

	switch options.Lifetime {
	case locator.LifetimeSingleton:
		err = c.NamedSingletonLazy(options.Name, constructor)
	case locator.LifetimeTransient:
		err = c.NamedTransientLazy(options.Name, constructor)
	default:
		err = locator.NewUnsupportedLifetimeError(options.Lifetime)
	}

	if err != nil {
		return fmt.Errorf("register %s: %w", locator.ServiceRef{Type: serviceType, Key: options.Name}, err)
	}

	r.owner.setLifetime(locator.ServiceRef{Type: serviceType, Key: options.Name}, options.Lifetime)

	r.owner.logger.Debug("service registered",
		zap.Stringer("service", locator.ServiceRef{Type: serviceType, Key: options.Name}),
		zap.Stringer("lifetime", options.Lifetime),
	)

	return nil
}
