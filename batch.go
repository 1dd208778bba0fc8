package locator

// ServiceRegistration holds configuration for a service to be registered.
type ServiceRegistration struct {
	Constructor any
	Options     []RegisterOption
}

// Service creates a ServiceRegistration for batch registration.
//
// Example:
//
//	locator.RegisterServices(l.Batch(),
//	    locator.Service(NewDatabase),
//	    locator.Service(NewRequestLog, locator.Transient()),
//	)
func Service(constructor any, opts ...RegisterOption) ServiceRegistration {
	return ServiceRegistration{
		Constructor: constructor,
		Options:     opts,
	}
}

// RegisterServices registers multiple services in a single call.
// It stops at the first failing registration.
func RegisterServices(r Registrar, services ...ServiceRegistration) error {
	for _, svc := range services {
		if err := r.Register(svc.Constructor, svc.Options...); err != nil {
			return err
		}
	}
	return nil
}
