package diglocator

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/xraph/locator"
)

// registrar provides constructors to dig and feeds each registration into
// its type's value group so ResolveAll can see it.
type registrar struct {
	owner *Locator
}

// Register provides constructor. Only singleton registrations are supported.
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
	ref := locator.ServiceRef{Type: serviceType, Key: options.Name}

	if options.Lifetime != locator.LifetimeSingleton {
		return fmt.Errorf("register %s: %w", ref, locator.NewUnsupportedLifetimeError(options.Lifetime))
	}

	var provideOpts []dig.ProvideOption
	if options.Name != "" {
		provideOpts = append(provideOpts, dig.Name(options.Name))
	}

	if err := c.Provide(constructor, provideOpts...); err != nil {
		return fmt.Errorf("register %s: %w", ref, err)
	}

	// Result objects carry their own names and groups.
	if !embeds(serviceType, outType) {
		if err := c.Provide(groupFeeder(serviceType, options.Name), dig.Group(GroupName(serviceType))); err != nil {
			return fmt.Errorf("register %s in group: %w", ref, err)
		}
	}

	r.owner.logger.Debug("service registered",
		zap.Stringer("service", ref),
		zap.Stringer("lifetime", options.Lifetime),
	)

	return nil
}
