package locator

import "context"

type contextKeyType string

const locatorKey contextKeyType = "service-locator"

// WithLocator adds a locator to the context and returns a new context.
func WithLocator(ctx context.Context, l Locator) context.Context {
	return context.WithValue(ctx, locatorKey, l)
}

// FromContext returns the locator stored in the context.
func FromContext(ctx context.Context) (Locator, error) {
	l, ok := ctx.Value(locatorKey).(Locator)
	if !ok {
		return nil, ErrNoLocator
	}

	return l, nil
}
